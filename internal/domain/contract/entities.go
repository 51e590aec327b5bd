package contract

import "time"

type Name string

const (
	Registry  Name = "reputation_registry"
	Insurance Name = "insurance_pool"
	Liquidity Name = "lender_liquidity_pool"
	Escrow    Name = "loan_escrow"
)

// All lists contracts in deployment order (leaves first).
var All = []Name{Registry, Insurance, Liquidity, Escrow}

// Contract is a deployed component: its custody address, its deployer and the
// single write-once link it trusts (trusted caller, protocol or liquidity pool).
type Contract struct {
	Name         Name       `gorm:"primaryKey;size:32;column:name" json:"name"`
	Address      string     `gorm:"size:32;not null;uniqueIndex;column:address" json:"address"`
	Owner        string     `gorm:"size:32;not null;column:owner" json:"owner"`
	Link         *string    `gorm:"size:32;column:link" json:"link,omitempty"`
	ConfiguredAt *time.Time `gorm:"column:configured_at" json:"configured_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contract) TableName() string { return "contracts" }

func (c *Contract) Linked() bool { return c.Link != nil && *c.Link != "" }

// LinkedTo reports whether the link is set and equals addr.
func (c *Contract) LinkedTo(addr string) bool { return c.Linked() && *c.Link == addr }
