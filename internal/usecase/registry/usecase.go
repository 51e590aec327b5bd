// Package registry keeps the permanent default flag of every borrower.
package registry

import (
	"context"
	"fmt"
	"time"

	"loan-settlement/internal/apperrors"
	"loan-settlement/internal/domain/contract"
	"loan-settlement/internal/domain/event"
	"loan-settlement/internal/usecase/ledger"
)

const component = "registry"

type Usecase struct{ run *ledger.Runner }

func NewUsecase(run *ledger.Runner) *Usecase { return &Usecase{run: run} }

type BorrowerDTO struct {
	Borrower  string     `json:"borrower"`
	Flagged   bool       `json:"flagged"`
	Clean     bool       `json:"clean"`
	FlaggedAt *time.Time `json:"flagged_at,omitempty"`
	FlaggedBy string     `json:"flagged_by,omitempty"`
	LoanID    *uint64    `json:"loan_id,omitempty"`
}

// SetTrustedCaller names the single address allowed to flag borrowers.
func (u *Usecase) SetTrustedCaller(ctx context.Context, caller, trusted string) (*event.Receipt, error) {
	return u.run.Run(ctx, component, "set_trusted_caller", caller, func(ctx context.Context, tx *ledger.Tx) error {
		return ledger.Configure(ctx, tx, contract.Registry, trusted)
	})
}

func (u *Usecase) FlagBorrower(ctx context.Context, caller, borrower string) (*event.Receipt, error) {
	return u.run.Run(ctx, component, "flag_borrower", caller, func(ctx context.Context, tx *ledger.Tx) error {
		return u.FlagTx(ctx, tx, borrower, nil)
	})
}

// FlagTx flags borrower inside an existing transaction. tx.Caller must be the
// trusted caller.
func (u *Usecase) FlagTx(ctx context.Context, tx *ledger.Tx, borrower string, loanID *uint64) error {
	c, err := ledger.Contract(ctx, tx, contract.Registry)
	if err != nil {
		return err
	}
	if !c.LinkedTo(tx.Caller) {
		return fmt.Errorf("%w: %s is not the registry's trusted caller", apperrors.ErrUnauthorized, tx.Caller)
	}
	if borrower == "" {
		return fmt.Errorf("%w: empty borrower", apperrors.ErrInvalidInput)
	}

	rec, err := tx.Repos.Reputation.GetForUpdate(ctx, borrower)
	if err != nil {
		return err
	}
	if rec.Flagged {
		return fmt.Errorf("%w: %s", apperrors.ErrAlreadyFlagged, borrower)
	}
	at := tx.At
	rec.Flagged = true
	rec.FlaggedAt = &at
	rec.FlaggedBy = tx.Caller
	rec.LoanID = loanID
	if err := tx.Repos.Reputation.Save(ctx, rec); err != nil {
		return err
	}
	return tx.Emit(ctx, event.Event{
		Contract: string(contract.Registry),
		Kind:     event.BorrowerFlagged,
		Subject:  borrower,
		LoanID:   loanID,
	})
}

// FlaggedTx reads the flag inside tx, seeing writes made earlier in it.
func (u *Usecase) FlaggedTx(ctx context.Context, tx *ledger.Tx, borrower string) (bool, error) {
	rec, err := tx.Repos.Reputation.Get(ctx, borrower)
	if err != nil {
		return false, err
	}
	return rec.Flagged, nil
}

func (u *Usecase) IsFlagged(ctx context.Context, borrower string) (bool, error) {
	rec, err := u.run.Reader().Reputation.Get(ctx, borrower)
	if err != nil {
		return false, err
	}
	return rec.Flagged, nil
}

func (u *Usecase) IsClean(ctx context.Context, borrower string) (bool, error) {
	flagged, err := u.IsFlagged(ctx, borrower)
	return !flagged, err
}

func (u *Usecase) Get(ctx context.Context, borrower string) (*BorrowerDTO, error) {
	rec, err := u.run.Reader().Reputation.Get(ctx, borrower)
	if err != nil {
		return nil, err
	}
	return &BorrowerDTO{
		Borrower:  borrower,
		Flagged:   rec.Flagged,
		Clean:     !rec.Flagged,
		FlaggedAt: rec.FlaggedAt,
		FlaggedBy: rec.FlaggedBy,
		LoanID:    rec.LoanID,
	}, nil
}
