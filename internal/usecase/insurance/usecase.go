// Package insurance custodies insurer capital and pays claims on behalf of
// the trusted caller.
package insurance

import (
	"context"
	"fmt"

	"loan-settlement/internal/apperrors"
	"loan-settlement/internal/domain/contract"
	"loan-settlement/internal/domain/event"
	domain "loan-settlement/internal/domain/insurance"
	"loan-settlement/internal/usecase/ledger"

	"github.com/shopspring/decimal"
)

const component = "insurance"

type Usecase struct{ run *ledger.Runner }

func NewUsecase(run *ledger.Runner) *Usecase { return &Usecase{run: run} }

func (u *Usecase) SetTrustedCaller(ctx context.Context, caller, trusted string) (*event.Receipt, error) {
	return u.run.Run(ctx, component, "set_trusted_caller", caller, func(ctx context.Context, tx *ledger.Tx) error {
		return ledger.Configure(ctx, tx, contract.Insurance, trusted)
	})
}

// Deposit moves value from the caller into pool custody and credits it in full.
func (u *Usecase) Deposit(ctx context.Context, caller string, value decimal.Decimal) (*event.Receipt, error) {
	return u.run.Run(ctx, component, "deposit", caller, func(ctx context.Context, tx *ledger.Tx) error {
		if !value.IsPositive() {
			return fmt.Errorf("%w: deposit must carry value", apperrors.ErrInvalidInput)
		}
		if err := ledger.CheckAmount("deposit", value); err != nil {
			return err
		}
		c, err := ledger.Contract(ctx, tx, contract.Insurance)
		if err != nil {
			return err
		}
		if err := tx.Transfer(ctx, string(contract.Insurance), tx.Caller, c.Address, value); err != nil {
			return err
		}

		acct, err := tx.Repos.Insurers.GetForUpdate(ctx, tx.Caller)
		if err != nil {
			return err
		}
		acct.Balance = acct.Balance.Add(value)
		acct.TotalDeposited = acct.TotalDeposited.Add(value)
		if err := tx.Repos.Insurers.Save(ctx, acct); err != nil {
			return err
		}
		return tx.Emit(ctx, event.Event{
			Contract: string(contract.Insurance),
			Kind:     event.InsuranceDeposited,
			Subject:  tx.Caller,
			Amount:   decimal.NewNullDecimal(value),
		})
	})
}

func (u *Usecase) Payout(ctx context.Context, caller, insurer, recipient string, amount decimal.Decimal) (*event.Receipt, error) {
	return u.run.Run(ctx, component, "payout", caller, func(ctx context.Context, tx *ledger.Tx) error {
		return u.PayoutTx(ctx, tx, insurer, recipient, amount)
	})
}

// PayoutTx pays amount of insurer's balance to recipient. tx.Caller must be
// the trusted caller and the balance must cover the whole amount.
func (u *Usecase) PayoutTx(ctx context.Context, tx *ledger.Tx, insurer, recipient string, amount decimal.Decimal) error {
	c, err := ledger.Contract(ctx, tx, contract.Insurance)
	if err != nil {
		return err
	}
	if !c.LinkedTo(tx.Caller) {
		return fmt.Errorf("%w: %s is not the pool's trusted caller", apperrors.ErrUnauthorized, tx.Caller)
	}
	if !amount.IsPositive() || recipient == "" {
		return fmt.Errorf("%w: payout needs a recipient and a positive amount", apperrors.ErrInvalidInput)
	}
	if err := ledger.CheckAmount("payout", amount); err != nil {
		return err
	}

	acct, err := tx.Repos.Insurers.GetForUpdate(ctx, insurer)
	if err != nil {
		return err
	}
	if amount.GreaterThan(acct.Balance) {
		return fmt.Errorf("%w: insurer %s holds %s, payout %s", apperrors.ErrInsufficientBalance, insurer, acct.Balance, amount)
	}
	acct.Balance = acct.Balance.Sub(amount)
	acct.TotalPaidOut = acct.TotalPaidOut.Add(amount)
	if err := tx.Repos.Insurers.Save(ctx, acct); err != nil {
		return err
	}
	if err := tx.Transfer(ctx, string(contract.Insurance), c.Address, recipient, amount); err != nil {
		return err
	}
	return tx.Emit(ctx, event.Event{
		Contract:     string(contract.Insurance),
		Kind:         event.InsurancePaidOut,
		Subject:      insurer,
		Counterparty: recipient,
		Amount:       decimal.NewNullDecimal(amount),
	})
}

func (u *Usecase) GetBalance(ctx context.Context, insurer string) (decimal.Decimal, error) {
	acct, err := u.run.Reader().Insurers.Get(ctx, insurer)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

func (u *Usecase) GetAccount(ctx context.Context, insurer string) (*domain.InsurerAccount, error) {
	return u.run.Reader().Insurers.Get(ctx, insurer)
}
