package mysql

import (
	"context"
	"errors"

	liquidityDomain "loan-settlement/internal/domain/liquidity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LiquidityRepository struct{ db *gorm.DB }

func NewLiquidityRepository(db *gorm.DB) *LiquidityRepository { return &LiquidityRepository{db: db} }

func emptyPosition(lender string) liquidityDomain.Position {
	return liquidityDomain.Position{
		Lender:         lender,
		Balance:        decimal.Zero,
		TotalDeposited: decimal.Zero,
		TotalWithdrawn: decimal.Zero,
	}
}

func (r *LiquidityRepository) GetPosition(ctx context.Context, lender string) (*liquidityDomain.Position, error) {
	var out liquidityDomain.Position
	err := r.db.WithContext(ctx).Where("lender = ?", lender).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		out = emptyPosition(lender)
		return &out, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LiquidityRepository) GetPositionForUpdate(ctx context.Context, lender string) (*liquidityDomain.Position, error) {
	var out liquidityDomain.Position
	err := forUpdate(r.db.WithContext(ctx)).Where("lender = ?", lender).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		out = emptyPosition(lender)
		if err := r.db.WithContext(ctx).Create(&out).Error; err != nil {
			return nil, err
		}
		return &out, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LiquidityRepository) ListPositionsForUpdate(ctx context.Context) ([]liquidityDomain.Position, error) {
	var all []liquidityDomain.Position
	if err := forUpdate(r.db.WithContext(ctx)).Order("lender ASC").Find(&all).Error; err != nil {
		return nil, err
	}
	// filtered here: decimal columns compare unreliably as text in sqlite
	out := all[:0]
	for _, p := range all {
		if p.Balance.IsPositive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *LiquidityRepository) SavePosition(ctx context.Context, p *liquidityDomain.Position) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *LiquidityRepository) CreateAllocation(ctx context.Context, a *liquidityDomain.Allocation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *LiquidityRepository) GetAllocationForUpdate(ctx context.Context, loanID uint64) (*liquidityDomain.Allocation, error) {
	var out liquidityDomain.Allocation
	res := forUpdate(r.db.WithContext(ctx)).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LiquidityRepository) SaveAllocation(ctx context.Context, a *liquidityDomain.Allocation) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *LiquidityRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var open []liquidityDomain.Allocation
	if err := r.db.WithContext(ctx).Where("status = ?", liquidityDomain.AllocationOpen).Find(&open).Error; err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, a := range open {
		sum = sum.Add(a.Principal)
	}
	return sum, nil
}

func (r *LiquidityRepository) SumClaims(ctx context.Context) (decimal.Decimal, int, error) {
	var all []liquidityDomain.Position
	if err := r.db.WithContext(ctx).Find(&all).Error; err != nil {
		return decimal.Zero, 0, err
	}
	sum, n := decimal.Zero, 0
	for _, p := range all {
		if p.Balance.IsPositive() {
			sum = sum.Add(p.Balance)
			n++
		}
	}
	return sum, n, nil
}
