package escrow

import (
	"time"

	"loan-settlement/internal/domain/event"
	"loan-settlement/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	Principal       decimal.Decimal
	InterestAmount  decimal.Decimal
	DurationSeconds int64
	WantsInsurance  bool
	Insurer         string
}

type LoanDTO struct {
	ID              uint64          `json:"id"`
	Borrower        string          `json:"borrower"`
	Lender          *string         `json:"lender,omitempty"`
	Principal       decimal.Decimal `json:"principal"`
	InterestAmount  decimal.Decimal `json:"interest_amount"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	DurationSeconds int64           `json:"duration_seconds"`
	FundedAt        *time.Time      `json:"funded_at,omitempty"`
	Deadline        *time.Time      `json:"deadline,omitempty"`
	WantsInsurance  bool            `json:"wants_insurance"`
	Insurer         *string         `json:"insurer,omitempty"`
	FundingSource   string          `json:"funding_source,omitempty"`
	InsurancePaid   decimal.Decimal `json:"insurance_paid"`
	Shortfall       decimal.Decimal `json:"shortfall"`
	State           string          `json:"state"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LoanReceipt is the loan as committed plus the receipt of the call.
type LoanReceipt struct {
	Loan LoanDTO `json:"loan"`
	event.Receipt
}

func toDTO(l *loan.Loan) LoanDTO {
	return LoanDTO{
		ID:              l.ID,
		Borrower:        l.Borrower,
		Lender:          l.Lender,
		Principal:       l.Principal,
		InterestAmount:  l.InterestAmount,
		AmountDue:       l.AmountDue(),
		DurationSeconds: l.DurationSeconds,
		FundedAt:        l.FundedAt,
		Deadline:        l.Deadline,
		WantsInsurance:  l.WantsInsurance,
		Insurer:         l.Insurer,
		FundingSource:   string(l.FundingSource),
		InsurancePaid:   l.InsurancePaid,
		Shortfall:       l.Shortfall,
		State:           string(l.State),
		CreatedAt:       l.CreatedAt,
	}
}
