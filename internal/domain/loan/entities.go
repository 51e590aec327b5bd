package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateCreated   State = "created"
	StateFunded    State = "funded"
	StateRepaid    State = "repaid"
	StateDefaulted State = "defaulted"
)

type FundingSource string

const (
	FundedDirect FundingSource = "direct"
	FundedByPool FundingSource = "pool"
)

// MaxDurationSeconds is the longest term whose deadline still fits a time.Duration.
const MaxDurationSeconds = math.MaxInt64 / int64(time.Second)

type Loan struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Borrower        string          `gorm:"size:32;not null;index:idx_loans_borrower;column:borrower" json:"borrower"`
	Lender          *string         `gorm:"size:32;index:idx_loans_lender;column:lender" json:"lender,omitempty"`
	Principal       decimal.Decimal `gorm:"type:decimal(38,18);not null;column:principal" json:"principal"`
	InterestAmount  decimal.Decimal `gorm:"type:decimal(38,18);not null;column:interest_amount" json:"interest_amount"`
	DurationSeconds int64           `gorm:"not null;column:duration_seconds" json:"duration_seconds"`
	FundedAt        *time.Time      `gorm:"column:funded_at" json:"funded_at,omitempty"`
	Deadline        *time.Time      `gorm:"column:deadline" json:"deadline,omitempty"`
	WantsInsurance  bool            `gorm:"not null;column:wants_insurance" json:"wants_insurance"`
	Insurer         *string         `gorm:"size:32;column:insurer" json:"insurer,omitempty"`
	FundingSource   FundingSource   `gorm:"size:16;column:funding_source" json:"funding_source,omitempty"`
	InsurancePaid   decimal.Decimal `gorm:"type:decimal(38,18);not null;default:0;column:insurance_paid" json:"insurance_paid"`
	Shortfall       decimal.Decimal `gorm:"type:decimal(38,18);not null;default:0;column:shortfall" json:"shortfall"`
	State           State           `gorm:"size:16;not null;index:idx_loans_state;column:state" json:"state"`
	StateUpdatedAt  time.Time       `gorm:"column:state_updated_at" json:"state_updated_at"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// AmountDue is what the borrower must attach to repay.
func (l *Loan) AmountDue() decimal.Decimal { return l.Principal.Add(l.InterestAmount) }

func (l *Loan) LenderAddress() string {
	if l.Lender == nil {
		return ""
	}
	return *l.Lender
}

func (l *Loan) InsurerAddress() string {
	if l.Insurer == nil {
		return ""
	}
	return *l.Insurer
}

// Overdue reports whether now is strictly past the deadline.
func (l *Loan) Overdue(now time.Time) bool {
	return l.Deadline != nil && now.After(*l.Deadline)
}
