package loanmock

import (
	"context"

	domain "loan-settlement/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error; reads default to context.Canceled.
type Repo struct {
	CreateFn           func(ctx context.Context, l *domain.Loan) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Loan, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Loan, error)
	ListFn             func(ctx context.Context, f domain.Filter) ([]domain.Loan, error)
	SaveFn             func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
