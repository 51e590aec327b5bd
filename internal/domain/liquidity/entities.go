package liquidity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a lender's claim on the pooled capital.
type Position struct {
	Lender         string          `gorm:"primaryKey;size:32;column:lender" json:"lender"`
	Balance        decimal.Decimal `gorm:"type:decimal(38,18);not null;column:balance" json:"balance"`
	TotalDeposited decimal.Decimal `gorm:"type:decimal(38,18);not null;column:total_deposited" json:"total_deposited"`
	TotalWithdrawn decimal.Decimal `gorm:"type:decimal(38,18);not null;column:total_withdrawn" json:"total_withdrawn"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Position) TableName() string { return "pool_positions" }

type AllocationStatus string

const (
	AllocationOpen      AllocationStatus = "open"
	AllocationRepaid    AllocationStatus = "repaid"
	AllocationDefaulted AllocationStatus = "defaulted"
)

// Allocation is pooled capital committed to one escrow loan.
type Allocation struct {
	LoanID    uint64           `gorm:"primaryKey;autoIncrement:false;column:loan_id" json:"loan_id"`
	Escrow    string           `gorm:"size:32;not null;column:escrow" json:"escrow"`
	Allocator string           `gorm:"size:32;not null;column:allocator" json:"allocator"`
	Principal decimal.Decimal  `gorm:"type:decimal(38,18);not null;column:principal" json:"principal"`
	Returned  decimal.Decimal  `gorm:"type:decimal(38,18);not null;column:returned" json:"returned"`
	Status    AllocationStatus `gorm:"size:16;not null;index;column:status" json:"status"`
	SettledAt *time.Time       `gorm:"column:settled_at" json:"settled_at,omitempty"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Allocation) TableName() string { return "pool_allocations" }

// Summary is the aggregate view of the pool.
type Summary struct {
	Address     string          `json:"address"`
	Protocol    string          `json:"protocol,omitempty"`
	Liquid      decimal.Decimal `json:"liquid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	TotalClaims decimal.Decimal `json:"total_claims"`
	Lenders     int             `json:"lenders"`
}
