package uowmock

import (
	"context"
	"errors"

	"loan-settlement/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; an unset WithinTxFn
// returns errUnimplemented and an unset ReaderFn returns Repos.
type UoW struct {
	WithinTxFn func(ctx context.Context, fn func(r uow.Repos) error) error
	ReaderFn   func() uow.Repos
	// Repos backs Passthrough and the default Reader.
	Repos uow.Repos
}

func New() *UoW { return &UoW{} }

// Passthrough runs every transaction body directly against m.Repos.
func (m *UoW) Passthrough() *UoW {
	m.WithinTxFn = func(_ context.Context, fn func(uow.Repos) error) error { return fn(m.Repos) }
	return m
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) Reader() uow.Repos {
	if m.ReaderFn != nil {
		return m.ReaderFn()
	}
	return m.Repos
}
