package mysql

import (
	"context"
	"errors"

	insuranceDomain "loan-settlement/internal/domain/insurance"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InsuranceRepository struct{ db *gorm.DB }

func NewInsuranceRepository(db *gorm.DB) *InsuranceRepository { return &InsuranceRepository{db: db} }

func emptyInsurer(insurer string) insuranceDomain.InsurerAccount {
	return insuranceDomain.InsurerAccount{
		Insurer:        insurer,
		Balance:        decimal.Zero,
		TotalDeposited: decimal.Zero,
		TotalPaidOut:   decimal.Zero,
	}
}

func (r *InsuranceRepository) Get(ctx context.Context, insurer string) (*insuranceDomain.InsurerAccount, error) {
	var out insuranceDomain.InsurerAccount
	err := r.db.WithContext(ctx).Where("insurer = ?", insurer).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		out = emptyInsurer(insurer)
		return &out, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *InsuranceRepository) GetForUpdate(ctx context.Context, insurer string) (*insuranceDomain.InsurerAccount, error) {
	var out insuranceDomain.InsurerAccount
	err := forUpdate(r.db.WithContext(ctx)).Where("insurer = ?", insurer).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		out = emptyInsurer(insurer)
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

func (r *InsuranceRepository) Save(ctx context.Context, a *insuranceDomain.InsurerAccount) error {
	return r.db.WithContext(ctx).Save(a).Error
}
