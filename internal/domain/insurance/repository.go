package insurance

import "context"

type Repository interface {
	Get(ctx context.Context, insurer string) (*InsurerAccount, error)
	GetForUpdate(ctx context.Context, insurer string) (*InsurerAccount, error)
	Save(ctx context.Context, a *InsurerAccount) error
}
