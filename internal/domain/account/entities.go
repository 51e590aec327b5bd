package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the native-value balance held by an address. Component custody
// (escrow, insurance pool, liquidity pool) lives in ordinary accounts too.
type Account struct {
	Address   string          `gorm:"primaryKey;size:32;column:address" json:"address"`
	Balance   decimal.Decimal `gorm:"type:decimal(38,18);not null;column:balance" json:"balance"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// Scale is the number of fractional digits a native amount may carry; columns
// are decimal(38,18), leaving 20 integer digits.
const Scale = 18

var amountCeiling = decimal.New(1, 38-Scale)

// Representable reports whether d is stored without rounding or overflow.
func Representable(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale)) && d.Abs().LessThan(amountCeiling)
}
