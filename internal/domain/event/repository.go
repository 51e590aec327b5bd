package event

import "context"

type Repository interface {
	Append(ctx context.Context, e *Event) error
	// ListAfter returns events with Seq > after in commit order.
	ListAfter(ctx context.Context, after uint64, limit int) ([]Event, error)
	ListByLoan(ctx context.Context, loanID uint64) ([]Event, error)
}
