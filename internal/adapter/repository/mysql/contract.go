package mysql

import (
	"context"

	contractDomain "loan-settlement/internal/domain/contract"

	"gorm.io/gorm"
)

type ContractRepository struct{ db *gorm.DB }

func NewContractRepository(db *gorm.DB) *ContractRepository { return &ContractRepository{db: db} }

func (r *ContractRepository) Create(ctx context.Context, c *contractDomain.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractRepository) Get(ctx context.Context, name contractDomain.Name) (*contractDomain.Contract, error) {
	var out contractDomain.Contract
	res := r.db.WithContext(ctx).Where("name = ?", name).First(&out)
	return &out, res.Error
}

func (r *ContractRepository) GetForUpdate(ctx context.Context, name contractDomain.Name) (*contractDomain.Contract, error) {
	var out contractDomain.Contract
	res := forUpdate(r.db.WithContext(ctx)).Where("name = ?", name).First(&out)
	return &out, res.Error
}

func (r *ContractRepository) List(ctx context.Context) ([]contractDomain.Contract, error) {
	var out []contractDomain.Contract
	res := r.db.WithContext(ctx).Order("created_at ASC, name ASC").Find(&out)
	return out, res.Error
}

func (r *ContractRepository) Save(ctx context.Context, c *contractDomain.Contract) error {
	return r.db.WithContext(ctx).Save(c).Error
}
