package mysql

import (
	"context"

	eventDomain "loan-settlement/internal/domain/event"

	"gorm.io/gorm"
)

type EventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) Append(ctx context.Context, e *eventDomain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) ListAfter(ctx context.Context, after uint64, limit int) ([]eventDomain.Event, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	var out []eventDomain.Event
	res := r.db.WithContext(ctx).Where("seq > ?", after).Order("seq ASC").Limit(limit).Find(&out)
	return out, res.Error
}

func (r *EventRepository) ListByLoan(ctx context.Context, loanID uint64) ([]eventDomain.Event, error) {
	var out []eventDomain.Event
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("seq ASC").Find(&out)
	return out, res.Error
}
