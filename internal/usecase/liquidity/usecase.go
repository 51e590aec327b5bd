// Package liquidity pools lender capital and lends it out through the escrow
// at the direction of a single protocol address.
package liquidity

import (
	"context"
	"errors"
	"fmt"

	"loan-settlement/internal/apperrors"
	"loan-settlement/internal/domain/contract"
	"loan-settlement/internal/domain/event"
	domain "loan-settlement/internal/domain/liquidity"
	"loan-settlement/internal/domain/loan"
	"loan-settlement/internal/usecase/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const component = "liquidity"

// LoanFunder funds a created loan from the pool's custody, with tx.Caller set
// to the pool address.
type LoanFunder interface {
	FundFromPoolTx(ctx context.Context, tx *ledger.Tx, loanID uint64) (*loan.Loan, error)
}

type Usecase struct {
	run    *ledger.Runner
	funder LoanFunder
}

func NewUsecase(run *ledger.Runner, funder LoanFunder) *Usecase {
	return &Usecase{run: run, funder: funder}
}

func (u *Usecase) SetProtocol(ctx context.Context, caller, protocol string) (*event.Receipt, error) {
	return u.run.Run(ctx, component, "set_protocol", caller, func(ctx context.Context, tx *ledger.Tx) error {
		return ledger.Configure(ctx, tx, contract.Liquidity, protocol)
	})
}

func (u *Usecase) Deposit(ctx context.Context, caller string, value decimal.Decimal) (*event.Receipt, error) {
	return u.run.Run(ctx, component, "deposit", caller, func(ctx context.Context, tx *ledger.Tx) error {
		if !value.IsPositive() {
			return fmt.Errorf("%w: deposit must carry value", apperrors.ErrInvalidInput)
		}
		if err := ledger.CheckAmount("deposit", value); err != nil {
			return err
		}
		c, err := ledger.Contract(ctx, tx, contract.Liquidity)
		if err != nil {
			return err
		}
		if err := tx.Transfer(ctx, string(contract.Liquidity), tx.Caller, c.Address, value); err != nil {
			return err
		}
		p, err := tx.Repos.Pool.GetPositionForUpdate(ctx, tx.Caller)
		if err != nil {
			return err
		}
		p.Balance = p.Balance.Add(value)
		p.TotalDeposited = p.TotalDeposited.Add(value)
		if err := tx.Repos.Pool.SavePosition(ctx, p); err != nil {
			return err
		}
		return tx.Emit(ctx, event.Event{
			Contract: string(contract.Liquidity),
			Kind:     event.PoolDeposited,
			Subject:  tx.Caller,
			Amount:   decimal.NewNullDecimal(value),
		})
	})
}

// Withdraw pays out of the caller's own position, limited by what is liquid.
func (u *Usecase) Withdraw(ctx context.Context, caller string, amount decimal.Decimal) (*event.Receipt, error) {
	return u.run.Run(ctx, component, "withdraw", caller, func(ctx context.Context, tx *ledger.Tx) error {
		if !amount.IsPositive() {
			return fmt.Errorf("%w: withdrawal must be positive", apperrors.ErrInvalidInput)
		}
		if err := ledger.CheckAmount("withdrawal", amount); err != nil {
			return err
		}
		c, err := ledger.Contract(ctx, tx, contract.Liquidity)
		if err != nil {
			return err
		}
		p, err := tx.Repos.Pool.GetPositionForUpdate(ctx, tx.Caller)
		if err != nil {
			return err
		}
		if amount.GreaterThan(p.Balance) {
			return fmt.Errorf("%w: position holds %s, withdrawal %s", apperrors.ErrInsufficientBalance, p.Balance, amount)
		}
		custody, err := tx.Repos.Accounts.GetForUpdate(ctx, c.Address)
		if err != nil {
			return err
		}
		if amount.GreaterThan(custody.Balance) {
			return fmt.Errorf("%w: only %s is liquid, the rest is lent out", apperrors.ErrInsufficientBalance, custody.Balance)
		}

		p.Balance = p.Balance.Sub(amount)
		p.TotalWithdrawn = p.TotalWithdrawn.Add(amount)
		if err := tx.Repos.Pool.SavePosition(ctx, p); err != nil {
			return err
		}
		if err := tx.Transfer(ctx, string(contract.Liquidity), c.Address, tx.Caller, amount); err != nil {
			return err
		}
		return tx.Emit(ctx, event.Event{
			Contract: string(contract.Liquidity),
			Kind:     event.PoolWithdrawn,
			Subject:  tx.Caller,
			Amount:   decimal.NewNullDecimal(amount),
		})
	})
}

// Allocate funds a created escrow loan with pooled capital. Protocol only.
func (u *Usecase) Allocate(ctx context.Context, caller string, loanID uint64) (*event.Receipt, error) {
	return u.run.Run(ctx, component, "allocate", caller, func(ctx context.Context, tx *ledger.Tx) error {
		c, err := ledger.Contract(ctx, tx, contract.Liquidity)
		if err != nil {
			return err
		}
		if !c.LinkedTo(tx.Caller) {
			return fmt.Errorf("%w: %s is not the pool's protocol", apperrors.ErrUnauthorized, tx.Caller)
		}
		esc, err := ledger.Contract(ctx, tx, contract.Escrow)
		if err != nil {
			return err
		}

		l, err := u.funder.FundFromPoolTx(ctx, tx.As(c.Address), loanID)
		if err != nil {
			return err
		}
		if err := tx.Repos.Pool.CreateAllocation(ctx, &domain.Allocation{
			LoanID:    l.ID,
			Escrow:    esc.Address,
			Allocator: tx.Caller,
			Principal: l.Principal,
			Returned:  decimal.Zero,
			Status:    domain.AllocationOpen,
		}); err != nil {
			return err
		}
		return tx.Emit(ctx, event.Event{
			Contract:     string(contract.Liquidity),
			Kind:         event.PoolAllocated,
			Subject:      c.Address,
			Counterparty: l.Borrower,
			LoanID:       &l.ID,
			Amount:       decimal.NewNullDecimal(l.Principal),
		})
	})
}

// SettleTx closes the allocation of loanID once the escrow has sent back
// returned. Any gain over principal is credited to lenders pro-rata, any
// shortfall debited pro-rata. tx.Caller must be the allocation's escrow.
func (u *Usecase) SettleTx(ctx context.Context, tx *ledger.Tx, loanID uint64, returned decimal.Decimal, defaulted bool) error {
	a, err := tx.Repos.Pool.GetAllocationForUpdate(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: no allocation for loan %d", apperrors.ErrNotFound, loanID)
	}
	if err != nil {
		return err
	}
	if a.Escrow != tx.Caller {
		return fmt.Errorf("%w: %s did not receive allocation %d", apperrors.ErrUnauthorized, tx.Caller, loanID)
	}
	if a.Status != domain.AllocationOpen {
		return fmt.Errorf("%w: allocation %d is %s", apperrors.ErrInvalidState, loanID, a.Status)
	}

	positions, err := tx.Repos.Pool.ListPositionsForUpdate(ctx)
	if err != nil {
		return err
	}
	delta := returned.Sub(a.Principal)
	for _, s := range Split(positions, delta) {
		p := s.Position
		p.Balance = p.Balance.Add(s.Share)
		if err := tx.Repos.Pool.SavePosition(ctx, &p); err != nil {
			return err
		}
	}

	at := tx.At
	a.Returned = returned
	a.SettledAt = &at
	a.Status = domain.AllocationRepaid
	if defaulted {
		a.Status = domain.AllocationDefaulted
	}
	if err := tx.Repos.Pool.SaveAllocation(ctx, a); err != nil {
		return err
	}
	return tx.Emit(ctx, event.Event{
		Contract: string(contract.Liquidity),
		Kind:     event.PoolSettled,
		Subject:  a.Escrow,
		LoanID:   &a.LoanID,
		Amount:   decimal.NewNullDecimal(returned),
		State:    string(a.Status),
		Note:     "delta=" + delta.String(),
	})
}

func (u *Usecase) GetPosition(ctx context.Context, lender string) (*domain.Position, error) {
	return u.run.Reader().Pool.GetPosition(ctx, lender)
}

func (u *Usecase) Summary(ctx context.Context) (*domain.Summary, error) {
	r := u.run.Reader()
	c, err := r.Contracts.Get(ctx, contract.Liquidity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotDeployed, contract.Liquidity)
	}
	if err != nil {
		return nil, err
	}
	custody, err := r.Accounts.Get(ctx, c.Address)
	if err != nil {
		return nil, err
	}
	outstanding, err := r.Pool.SumOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	claims, lenders, err := r.Pool.SumClaims(ctx)
	if err != nil {
		return nil, err
	}
	s := &domain.Summary{
		Address:     c.Address,
		Liquid:      custody.Balance,
		Outstanding: outstanding,
		TotalClaims: claims,
		Lenders:     lenders,
	}
	if c.Linked() {
		s.Protocol = *c.Link
	}
	return s, nil
}
