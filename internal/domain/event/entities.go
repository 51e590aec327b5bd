package event

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	ContractDeployed   Kind = "ContractDeployed"
	LinkConfigured     Kind = "LinkConfigured"
	Minted             Kind = "Minted"
	Transferred        Kind = "Transferred"
	BorrowerFlagged    Kind = "BorrowerFlagged"
	InsuranceDeposited Kind = "InsuranceDeposited"
	InsurancePaidOut   Kind = "InsurancePaidOut"
	PoolDeposited      Kind = "PoolDeposited"
	PoolWithdrawn      Kind = "PoolWithdrawn"
	PoolAllocated      Kind = "PoolAllocated"
	PoolSettled        Kind = "PoolSettled"
	LoanCreated        Kind = "LoanCreated"
	LoanFunded         Kind = "LoanFunded"
	LoanRepaid         Kind = "LoanRepaid"
	LoanDefaulted      Kind = "LoanDefaulted"
)

// Event is one append-only audit record. Seq gives the global commit order.
type Event struct {
	Seq          uint64              `gorm:"primaryKey;autoIncrement;column:seq" json:"seq"`
	EventID      string              `gorm:"size:32;not null;uniqueIndex;column:event_id" json:"event_id"`
	TxID         string              `gorm:"size:32;not null;index;column:tx_id" json:"tx_id"`
	Contract     string              `gorm:"size:32;not null;column:contract" json:"contract"`
	Kind         Kind                `gorm:"size:32;not null;index;column:kind" json:"kind"`
	Caller       string              `gorm:"size:32;column:caller" json:"caller"`
	Subject      string              `gorm:"size:32;column:subject" json:"subject,omitempty"`
	Counterparty string              `gorm:"size:32;column:counterparty" json:"counterparty,omitempty"`
	LoanID       *uint64             `gorm:"index;column:loan_id" json:"loan_id,omitempty"`
	Amount       decimal.NullDecimal `gorm:"type:decimal(38,18);column:amount" json:"amount"`
	State        string              `gorm:"size:16;column:state" json:"state,omitempty"`
	Note         string              `gorm:"size:255;column:note" json:"note,omitempty"`
	CreatedAt    time.Time           `gorm:"column:created_at" json:"created_at"`
}

func (Event) TableName() string { return "events" }

// Receipt is what every mutating call hands back: the tx id and the events it committed.
type Receipt struct {
	TxID   string  `json:"tx_id"`
	Events []Event `json:"events"`
}

// Publisher fans committed events out to observers. Called after commit only.
type Publisher interface {
	Publish(ctx context.Context, events []Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, []Event) error { return nil }
