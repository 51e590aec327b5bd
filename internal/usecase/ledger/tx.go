package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loan-settlement/internal/apperrors"
	"loan-settlement/internal/domain/account"
	"loan-settlement/internal/domain/event"
	"loan-settlement/internal/domain/uow"
	"loan-settlement/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tx is one atomic state transition. Cross-component calls receive the same
// Tx (re-addressed with As) so every write and event lands in one commit.
type Tx struct {
	ID     string
	Caller string
	At     time.Time
	Repos  uow.Repos

	state *txState
}

type txState struct {
	seq    *id.Sequence
	events []event.Event
	moved  decimal.Decimal
}

func newTx(caller string, at time.Time, seq *id.Sequence) *Tx {
	return &Tx{
		ID:     id.NewID32(),
		Caller: caller,
		At:     at.UTC(),
		state:  &txState{seq: seq, moved: decimal.Zero},
	}
}

func (t *Tx) reset(r uow.Repos) {
	t.Repos = r
	t.state.events = nil
	t.state.moved = decimal.Zero
}

// As returns a view of the same transaction whose caller is addr. A component
// uses it to call another component under its own contract address.
func (t *Tx) As(addr string) *Tx {
	c := *t
	c.Caller = addr
	return &c
}

// Emit stamps e with the transaction's ids and persists it.
func (t *Tx) Emit(ctx context.Context, e event.Event) error {
	e.EventID = t.state.seq.Next()
	e.TxID = t.ID
	if e.Caller == "" {
		e.Caller = t.Caller
	}
	e.CreatedAt = t.At
	if err := t.Repos.Events.Append(ctx, &e); err != nil {
		return fmt.Errorf("append event %s: %w", e.Kind, err)
	}
	t.state.events = append(t.state.events, e)
	return nil
}

// Events returns what has been emitted so far.
func (t *Tx) Events() []event.Event { return t.state.events }

// CheckAmount rejects a value the ledger cannot hold exactly.
func CheckAmount(what string, amount decimal.Decimal) error {
	if !account.Representable(amount) {
		return fmt.Errorf("%w: %s %s has more than %d decimal places or is out of range", apperrors.ErrInvalidInput, what, amount, account.Scale)
	}
	return nil
}

// Transfer moves native value between two accounts. Zero amounts are no-ops.
func (t *Tx) Transfer(ctx context.Context, contract, from, to string, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative transfer %s", apperrors.ErrInvalidInput, amount)
	}
	if err := CheckAmount("transfer", amount); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	// lock in address order so two transfers between the same pair never wait on each other
	first, second := from, to
	if second < first {
		first, second = second, first
	}
	a, err := t.Repos.Accounts.GetForUpdate(ctx, first)
	if err != nil {
		return err
	}
	b, err := t.Repos.Accounts.GetForUpdate(ctx, second)
	if err != nil {
		return err
	}
	src, dst := a, b
	if src.Address != from {
		src, dst = b, a
	}

	if src.Balance.LessThan(amount) {
		return fmt.Errorf("%w: %s holds %s, needs %s", apperrors.ErrInsufficientBalance, from, src.Balance, amount)
	}
	src.Balance = src.Balance.Sub(amount)
	dst.Balance = dst.Balance.Add(amount)
	if err := t.Repos.Accounts.Save(ctx, src); err != nil {
		return err
	}
	if err := t.Repos.Accounts.Save(ctx, dst); err != nil {
		return err
	}
	t.state.moved = t.state.moved.Add(amount)

	return t.Emit(ctx, event.Event{
		Contract:     contract,
		Kind:         event.Transferred,
		Subject:      from,
		Counterparty: to,
		Amount:       decimal.NewNullDecimal(amount),
	})
}

// NotFound turns a missing row into ErrNotFound, leaving other errors alone.
func NotFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}
