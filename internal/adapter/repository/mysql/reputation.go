package mysql

import (
	"context"
	"errors"

	reputationDomain "loan-settlement/internal/domain/reputation"

	"gorm.io/gorm"
)

type ReputationRepository struct{ db *gorm.DB }

func NewReputationRepository(db *gorm.DB) *ReputationRepository {
	return &ReputationRepository{db: db}
}

func (r *ReputationRepository) Get(ctx context.Context, borrower string) (*reputationDomain.Record, error) {
	var out reputationDomain.Record
	err := r.db.WithContext(ctx).Where("borrower = ?", borrower).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &reputationDomain.Record{Borrower: borrower}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ReputationRepository) GetForUpdate(ctx context.Context, borrower string) (*reputationDomain.Record, error) {
	var out reputationDomain.Record
	err := forUpdate(r.db.WithContext(ctx)).Where("borrower = ?", borrower).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		out = reputationDomain.Record{Borrower: borrower}
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

func (r *ReputationRepository) Save(ctx context.Context, rec *reputationDomain.Record) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *ReputationRepository) CountFlagged(ctx context.Context) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&reputationDomain.Record{}).Where("flagged = ?", true).Count(&n)
	return n, res.Error
}
