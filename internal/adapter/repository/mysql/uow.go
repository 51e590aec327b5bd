package mysql

import (
	"context"
	"sync"

	"loan-settlement/internal/domain/uow"

	"gorm.io/gorm"
)

// GormUoW runs one state transition at a time. The writer lock gives the
// one-transaction-at-a-time ordering components rely on; row locks still
// guard against other processes writing the same mysql schema.
type GormUoW struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Accounts:   &AccountRepository{db: db},
		Contracts:  &ContractRepository{db: db},
		Loans:      &LoanRepository{db: db},
		Reputation: &ReputationRepository{db: db},
		Insurers:   &InsuranceRepository{db: db},
		Pool:       &LiquidityRepository{db: db},
		Events:     &EventRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) Reader() uow.Repos { return reposFor(u.db) }
