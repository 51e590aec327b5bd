package mysql

import (
	"context"

	loanDomain "loan-settlement/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Loan, error) {
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{})
	if f.Borrower != "" {
		q = q.Where("borrower = ?", f.Borrower)
	}
	if f.Lender != "" {
		q = q.Where("lender = ?", f.Lender)
	}
	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []loanDomain.Loan
	res := q.Order("id DESC").Limit(limit).Find(&out)
	return out, res.Error
}
