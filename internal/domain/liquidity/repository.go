package liquidity

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	GetPosition(ctx context.Context, lender string) (*Position, error)
	GetPositionForUpdate(ctx context.Context, lender string) (*Position, error)
	// ListPositionsForUpdate locks every position with a positive balance, ordered by lender.
	ListPositionsForUpdate(ctx context.Context) ([]Position, error)
	SavePosition(ctx context.Context, p *Position) error

	CreateAllocation(ctx context.Context, a *Allocation) error
	GetAllocationForUpdate(ctx context.Context, loanID uint64) (*Allocation, error)
	SaveAllocation(ctx context.Context, a *Allocation) error

	SumOutstanding(ctx context.Context) (decimal.Decimal, error)
	SumClaims(ctx context.Context) (decimal.Decimal, int, error)
}
