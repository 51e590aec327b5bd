package loan

import "context"

type Filter struct {
	Borrower string
	Lender   string
	State    State
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	// GetByIDForUpdate locks the loan row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	List(ctx context.Context, f Filter) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}
