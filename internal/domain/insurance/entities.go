package insurance

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsurerAccount is the capital an insurer has deposited and not yet paid out.
// Invariant: Balance == TotalDeposited - TotalPaidOut, never negative.
type InsurerAccount struct {
	Insurer        string          `gorm:"primaryKey;size:32;column:insurer" json:"insurer"`
	Balance        decimal.Decimal `gorm:"type:decimal(38,18);not null;column:balance" json:"balance"`
	TotalDeposited decimal.Decimal `gorm:"type:decimal(38,18);not null;column:total_deposited" json:"total_deposited"`
	TotalPaidOut   decimal.Decimal `gorm:"type:decimal(38,18);not null;column:total_paid_out" json:"total_paid_out"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (InsurerAccount) TableName() string { return "insurer_accounts" }

