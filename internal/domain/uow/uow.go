package uow

import (
	"context"

	"loan-settlement/internal/domain/account"
	"loan-settlement/internal/domain/contract"
	"loan-settlement/internal/domain/event"
	"loan-settlement/internal/domain/insurance"
	"loan-settlement/internal/domain/liquidity"
	"loan-settlement/internal/domain/loan"
	"loan-settlement/internal/domain/reputation"
)

// Repos are bound to one transaction inside WithinTx, or to the plain connection
// when returned from Reader.
type Repos struct {
	Accounts   account.Repository
	Contracts  contract.Repository
	Loans      loan.Repository
	Reputation reputation.Repository
	Insurers   insurance.Repository
	Pool       liquidity.Repository
	Events     event.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn atomically: any error rolls back every write made through r.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// Reader returns repos for committed-state reads.
	Reader() Repos
}
