package account

import "context"

type Repository interface {
	// Get returns the account or a zero-balance value when the address was never touched.
	Get(ctx context.Context, address string) (*Account, error)
	// GetForUpdate locks the row, creating it with zero balance if missing.
	GetForUpdate(ctx context.Context, address string) (*Account, error)
	Save(ctx context.Context, a *Account) error
}
