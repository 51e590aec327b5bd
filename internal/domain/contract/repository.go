package contract

import "context"

type Repository interface {
	Create(ctx context.Context, c *Contract) error
	Get(ctx context.Context, name Name) (*Contract, error)
	GetForUpdate(ctx context.Context, name Name) (*Contract, error)
	List(ctx context.Context) ([]Contract, error)
	Save(ctx context.Context, c *Contract) error
}
