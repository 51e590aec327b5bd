package ledger

import (
	"context"
	"errors"
	"fmt"

	"loan-settlement/internal/apperrors"
	"loan-settlement/internal/domain/contract"
	"loan-settlement/internal/domain/event"

	"gorm.io/gorm"
)

// Contract loads a deployed component, locked for the rest of tx.
func Contract(ctx context.Context, tx *Tx, name contract.Name) (*contract.Contract, error) {
	c, err := tx.Repos.Contracts.GetForUpdate(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotDeployed, name)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Configure sets the write-once link of a contract. Only the deployer may set
// it and only while unset; it can never be re-pointed.
func Configure(ctx context.Context, tx *Tx, name contract.Name, link string) error {
	c, err := Contract(ctx, tx, name)
	if err != nil {
		return err
	}
	if tx.Caller != c.Owner {
		return fmt.Errorf("%w: only the deployer configures %s", apperrors.ErrUnauthorized, name)
	}
	if c.Linked() {
		return fmt.Errorf("%w: %s already points at %s", apperrors.ErrAlreadyConfigured, name, *c.Link)
	}
	if link == "" {
		return fmt.Errorf("%w: empty link", apperrors.ErrInvalidInput)
	}

	at := tx.At
	c.Link = &link
	c.ConfiguredAt = &at
	if err := tx.Repos.Contracts.Save(ctx, c); err != nil {
		return err
	}
	return tx.Emit(ctx, event.Event{
		Contract:     string(name),
		Kind:         event.LinkConfigured,
		Subject:      c.Address,
		Counterparty: link,
	})
}
