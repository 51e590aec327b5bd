package reputation

import "context"

type Repository interface {
	// Get returns the record, or an unflagged one if the borrower is unknown.
	Get(ctx context.Context, borrower string) (*Record, error)
	GetForUpdate(ctx context.Context, borrower string) (*Record, error)
	Save(ctx context.Context, r *Record) error
	CountFlagged(ctx context.Context) (int64, error)
}
