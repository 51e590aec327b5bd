package uowmock

import (
	"context"
	"errors"
	"testing"

	"loan-settlement/internal/domain/uow"
	"loan-settlement/internal/testutil/loanmock"
)

func TestUoW_Passthrough_ForwardsRepos(t *testing.T) {
	loans := &loanmock.Repo{}
	m := New()
	m.Repos = uow.Repos{Loans: loans}
	m.Passthrough()

	called := false
	err := m.WithinTx(context.Background(), func(r uow.Repos) error {
		called = true
		if r.Loans != loans {
			t.Fatalf("WithinTx: repos not forwarded")
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("WithinTx: err=%v called=%v", err, called)
	}
	if m.Reader().Loans != loans {
		t.Fatalf("Reader: repos not forwarded")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	sentinel := errors.New("boom")
	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error { return sentinel },
	}
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Defaults(t *testing.T) {
	m := &UoW{}
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}

	loans := &loanmock.Repo{}
	m.ReaderFn = func() uow.Repos { return uow.Repos{Loans: loans} }
	if m.Reader().Loans != loans {
		t.Fatalf("ReaderFn not used")
	}
}
