// Package escrow runs the loan lifecycle: creation, funding, repayment and
// default, with the consequences default has on the other components.
package escrow

import (
	"context"
	"fmt"

	"loan-settlement/internal/apperrors"
	"loan-settlement/internal/domain/account"
	"loan-settlement/internal/domain/contract"
	"loan-settlement/internal/domain/event"
	"loan-settlement/internal/domain/loan"
	"loan-settlement/internal/usecase/ledger"

	"github.com/shopspring/decimal"
)

const component = "escrow"

// Registry is the part of the reputation registry the escrow calls into.
type Registry interface {
	FlaggedTx(ctx context.Context, tx *ledger.Tx, borrower string) (bool, error)
	FlagTx(ctx context.Context, tx *ledger.Tx, borrower string, loanID *uint64) error
}

type InsurancePool interface {
	PayoutTx(ctx context.Context, tx *ledger.Tx, insurer, recipient string, amount decimal.Decimal) error
}

// PoolSettler is told how much of a pool-funded loan came back.
type PoolSettler interface {
	SettleTx(ctx context.Context, tx *ledger.Tx, loanID uint64, returned decimal.Decimal, defaulted bool) error
}

type Usecase struct {
	run       *ledger.Runner
	registry  Registry
	insurance InsurancePool
	pool      PoolSettler
}

func NewUsecase(run *ledger.Runner, reg Registry, ins InsurancePool) *Usecase {
	return &Usecase{run: run, registry: reg, insurance: ins}
}

// AttachPool wires the liquidity pool, which itself needs the escrow to exist.
func (u *Usecase) AttachPool(p PoolSettler) { u.pool = p }

func (u *Usecase) SetLiquidityPool(ctx context.Context, caller, pool string) (*event.Receipt, error) {
	return u.run.Run(ctx, component, "set_liquidity_pool", caller, func(ctx context.Context, tx *ledger.Tx) error {
		return ledger.Configure(ctx, tx, contract.Escrow, pool)
	})
}

func (u *Usecase) CreateLoan(ctx context.Context, caller string, in CreateLoanInput) (*LoanReceipt, error) {
	var out *loan.Loan
	rcpt, err := u.run.Run(ctx, component, "create_loan", caller, func(ctx context.Context, tx *ledger.Tx) error {
		if !in.Principal.IsPositive() || in.InterestAmount.IsNegative() || in.DurationSeconds <= 0 {
			return fmt.Errorf("%w: principal and duration must be positive, interest non-negative", apperrors.ErrInvalidInput)
		}
		if in.DurationSeconds > loan.MaxDurationSeconds {
			return fmt.Errorf("%w: duration over %ds", apperrors.ErrInvalidInput, loan.MaxDurationSeconds)
		}
		if err := ledger.CheckAmount("principal", in.Principal); err != nil {
			return err
		}
		if err := ledger.CheckAmount("interest", in.InterestAmount); err != nil {
			return err
		}
		if !account.Representable(in.Principal.Add(in.InterestAmount)) {
			return fmt.Errorf("%w: amount due is out of range", apperrors.ErrInvalidInput)
		}
		if in.WantsInsurance && in.Insurer == "" {
			return fmt.Errorf("%w: insured loan needs an insurer", apperrors.ErrInvalidInput)
		}
		if _, err := ledger.Contract(ctx, tx, contract.Escrow); err != nil {
			return err
		}
		flagged, err := u.registry.FlaggedTx(ctx, tx, tx.Caller)
		if err != nil {
			return err
		}
		if flagged {
			return fmt.Errorf("%w: %s", apperrors.ErrBorrowerFlagged, tx.Caller)
		}

		l := &loan.Loan{
			Borrower:        tx.Caller,
			Principal:       in.Principal,
			InterestAmount:  in.InterestAmount,
			DurationSeconds: in.DurationSeconds,
			WantsInsurance:  in.WantsInsurance,
			InsurancePaid:   decimal.Zero,
			Shortfall:       decimal.Zero,
			State:           loan.StateCreated,
			StateUpdatedAt:  tx.At,
		}
		if in.WantsInsurance {
			insurer := in.Insurer
			l.Insurer = &insurer
		}
		if err := tx.Repos.Loans.Create(ctx, l); err != nil {
			return err
		}
		out = l
		return tx.Emit(ctx, event.Event{
			Contract:     string(contract.Escrow),
			Kind:         event.LoanCreated,
			Subject:      l.Borrower,
			Counterparty: l.InsurerAddress(),
			LoanID:       &l.ID,
			Amount:       decimal.NewNullDecimal(l.Principal),
			State:        string(l.State),
		})
	})
	return receiptOf(out, rcpt, err)
}

// FundLoan takes exactly the principal from the caller and hands it to the
// borrower; the caller becomes the lender.
func (u *Usecase) FundLoan(ctx context.Context, caller string, loanID uint64, value decimal.Decimal) (*LoanReceipt, error) {
	var out *loan.Loan
	rcpt, err := u.run.Run(ctx, component, "fund_loan", caller, func(ctx context.Context, tx *ledger.Tx) error {
		l, err := u.lock(ctx, tx, loanID)
		if err != nil {
			return err
		}
		out = l
		return u.fund(ctx, tx, l, value, loan.FundedDirect)
	})
	return receiptOf(out, rcpt, err)
}

// FundFromPoolTx is FundLoan for the liquidity pool: tx.Caller must be the
// configured pool and the principal comes out of its custody.
func (u *Usecase) FundFromPoolTx(ctx context.Context, tx *ledger.Tx, loanID uint64) (*loan.Loan, error) {
	c, err := ledger.Contract(ctx, tx, contract.Escrow)
	if err != nil {
		return nil, err
	}
	if !c.LinkedTo(tx.Caller) {
		return nil, fmt.Errorf("%w: %s is not the escrow's liquidity pool", apperrors.ErrUnauthorized, tx.Caller)
	}
	l, err := u.lock(ctx, tx, loanID)
	if err != nil {
		return nil, err
	}
	if err := u.fund(ctx, tx, l, l.Principal, loan.FundedByPool); err != nil {
		return nil, err
	}
	return l, nil
}

func (u *Usecase) fund(ctx context.Context, tx *ledger.Tx, l *loan.Loan, value decimal.Decimal, src loan.FundingSource) error {
	c, err := ledger.Contract(ctx, tx, contract.Escrow)
	if err != nil {
		return err
	}
	if l.State != loan.StateCreated {
		return fmt.Errorf("%w: loan %d is %s", apperrors.ErrInvalidState, l.ID, l.State)
	}
	if !value.Equal(l.Principal) {
		return fmt.Errorf("%w: loan %d needs %s, got %s", apperrors.ErrWrongAmount, l.ID, l.Principal, value)
	}

	if err := tx.Transfer(ctx, string(contract.Escrow), tx.Caller, c.Address, value); err != nil {
		return err
	}
	if err := tx.Transfer(ctx, string(contract.Escrow), c.Address, l.Borrower, value); err != nil {
		return err
	}
	if err := l.MarkFunded(tx.Caller, src, tx.At); err != nil {
		return err
	}
	if err := tx.Repos.Loans.Save(ctx, l); err != nil {
		return err
	}
	return tx.Emit(ctx, event.Event{
		Contract:     string(contract.Escrow),
		Kind:         event.LoanFunded,
		Subject:      l.Borrower,
		Counterparty: tx.Caller,
		LoanID:       &l.ID,
		Amount:       decimal.NewNullDecimal(value),
		State:        string(l.State),
		Note:         string(src),
	})
}

// RepayLoan takes principal plus interest from the borrower and pays the lender.
func (u *Usecase) RepayLoan(ctx context.Context, caller string, loanID uint64, value decimal.Decimal) (*LoanReceipt, error) {
	var out *loan.Loan
	rcpt, err := u.run.Run(ctx, component, "repay_loan", caller, func(ctx context.Context, tx *ledger.Tx) error {
		c, err := ledger.Contract(ctx, tx, contract.Escrow)
		if err != nil {
			return err
		}
		l, err := u.lock(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if tx.Caller != l.Borrower {
			return fmt.Errorf("%w: only the borrower repays loan %d", apperrors.ErrUnauthorized, l.ID)
		}
		if l.State != loan.StateFunded {
			return fmt.Errorf("%w: loan %d is %s", apperrors.ErrInvalidState, l.ID, l.State)
		}
		due := l.AmountDue()
		if !value.Equal(due) {
			return fmt.Errorf("%w: loan %d needs %s, got %s", apperrors.ErrWrongAmount, l.ID, due, value)
		}

		if err := tx.Transfer(ctx, string(contract.Escrow), tx.Caller, c.Address, value); err != nil {
			return err
		}
		if err := tx.Transfer(ctx, string(contract.Escrow), c.Address, l.LenderAddress(), value); err != nil {
			return err
		}
		if err := l.Transition(loan.StateRepaid, tx.At); err != nil {
			return err
		}
		if err := tx.Repos.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := tx.Emit(ctx, event.Event{
			Contract:     string(contract.Escrow),
			Kind:         event.LoanRepaid,
			Subject:      l.Borrower,
			Counterparty: l.LenderAddress(),
			LoanID:       &l.ID,
			Amount:       decimal.NewNullDecimal(value),
			State:        string(l.State),
		}); err != nil {
			return err
		}
		out = l
		if l.FundingSource == loan.FundedByPool {
			return u.settle(ctx, tx.As(c.Address), l.ID, value, false)
		}
		return nil
	})
	return receiptOf(out, rcpt, err)
}

// MarkDefault closes an overdue funded loan: the borrower is flagged, an
// insured loan's principal is paid to the lender by its insurer, and a pool
// lender books the outcome. Anyone may call it. If the insurer cannot pay the
// full principal nothing changes.
func (u *Usecase) MarkDefault(ctx context.Context, caller string, loanID uint64) (*LoanReceipt, error) {
	var out *loan.Loan
	rcpt, err := u.run.Run(ctx, component, "mark_default", caller, func(ctx context.Context, tx *ledger.Tx) error {
		c, err := ledger.Contract(ctx, tx, contract.Escrow)
		if err != nil {
			return err
		}
		l, err := u.lock(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if l.State != loan.StateFunded {
			return fmt.Errorf("%w: loan %d is %s", apperrors.ErrInvalidState, l.ID, l.State)
		}
		if !l.Overdue(tx.At) {
			return fmt.Errorf("%w: loan %d is due at %s", apperrors.ErrNotYetDue, l.ID, l.Deadline.Format("2006-01-02T15:04:05Z"))
		}
		if err := l.Transition(loan.StateDefaulted, tx.At); err != nil {
			return err
		}

		self := tx.As(c.Address)
		flagged, err := u.registry.FlaggedTx(ctx, self, l.Borrower)
		if err != nil {
			return err
		}
		if !flagged {
			if err := u.registry.FlagTx(ctx, self, l.Borrower, &l.ID); err != nil {
				return err
			}
		}

		covered := decimal.Zero
		if l.WantsInsurance {
			// the whole principal or nothing; a short insurer aborts the default
			if err := u.insurance.PayoutTx(ctx, self, l.InsurerAddress(), l.LenderAddress(), l.Principal); err != nil {
				return err
			}
			covered = l.Principal
		}
		l.InsurancePaid = covered
		l.Shortfall = l.Principal.Sub(covered)
		if err := tx.Repos.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := tx.Emit(ctx, event.Event{
			Contract:     string(contract.Escrow),
			Kind:         event.LoanDefaulted,
			Subject:      l.Borrower,
			Counterparty: l.LenderAddress(),
			LoanID:       &l.ID,
			Amount:       decimal.NewNullDecimal(covered),
			State:        string(l.State),
			Note:         "shortfall=" + l.Shortfall.String(),
		}); err != nil {
			return err
		}
		out = l
		if l.FundingSource == loan.FundedByPool {
			return u.settle(ctx, self, l.ID, covered, true)
		}
		return nil
	})
	return receiptOf(out, rcpt, err)
}

func (u *Usecase) settle(ctx context.Context, tx *ledger.Tx, loanID uint64, returned decimal.Decimal, defaulted bool) error {
	if u.pool == nil {
		return fmt.Errorf("loan %d is pool funded but no pool is attached", loanID)
	}
	return u.pool.SettleTx(ctx, tx, loanID, returned, defaulted)
}

func (u *Usecase) lock(ctx context.Context, tx *ledger.Tx, loanID uint64) (*loan.Loan, error) {
	l, err := tx.Repos.Loans.GetByIDForUpdate(ctx, loanID)
	if err != nil {
		return nil, ledger.NotFound(err, "loan %d", loanID)
	}
	return l, nil
}

func (u *Usecase) GetLoan(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	l, err := u.run.Reader().Loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, ledger.NotFound(err, "loan %d", loanID)
	}
	dto := toDTO(l)
	return &dto, nil
}

func (u *Usecase) ListLoans(ctx context.Context, f loan.Filter) ([]LoanDTO, error) {
	ls, err := u.run.Reader().Loans.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, toDTO(&ls[i]))
	}
	return out, nil
}

// LoanEvents is the audit trail of one loan across every component.
func (u *Usecase) LoanEvents(ctx context.Context, loanID uint64) ([]event.Event, error) {
	if _, err := u.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}
	return u.run.Reader().Events.ListByLoan(ctx, loanID)
}

func receiptOf(l *loan.Loan, rcpt *event.Receipt, err error) (*LoanReceipt, error) {
	if err != nil {
		return nil, err
	}
	return &LoanReceipt{Loan: toDTO(l), Receipt: *rcpt}, nil
}
