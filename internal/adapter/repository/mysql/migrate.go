package mysql

import (
	accountDomain "loan-settlement/internal/domain/account"
	contractDomain "loan-settlement/internal/domain/contract"
	eventDomain "loan-settlement/internal/domain/event"
	insuranceDomain "loan-settlement/internal/domain/insurance"
	liquidityDomain "loan-settlement/internal/domain/liquidity"
	loanDomain "loan-settlement/internal/domain/loan"
	reputationDomain "loan-settlement/internal/domain/reputation"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&accountDomain.Account{},
		&contractDomain.Contract{},
		&loanDomain.Loan{},
		&reputationDomain.Record{},
		&insuranceDomain.InsurerAccount{},
		&liquidityDomain.Position{},
		&liquidityDomain.Allocation{},
		&eventDomain.Event{},
	)
}
