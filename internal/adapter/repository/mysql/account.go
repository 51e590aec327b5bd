package mysql

import (
	"context"
	"errors"

	accountDomain "loan-settlement/internal/domain/account"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

func (r *AccountRepository) Get(ctx context.Context, address string) (*accountDomain.Account, error) {
	var out accountDomain.Account
	err := r.db.WithContext(ctx).Where("address = ?", address).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &accountDomain.Account{Address: address, Balance: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *AccountRepository) GetForUpdate(ctx context.Context, address string) (*accountDomain.Account, error) {
	var out accountDomain.Account
	err := forUpdate(r.db.WithContext(ctx)).Where("address = ?", address).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		out = accountDomain.Account{Address: address, Balance: decimal.Zero}
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

func (r *AccountRepository) Save(ctx context.Context, a *accountDomain.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}
