package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

// 追記専用。Update/Deleteは実装しない。
type OrderEventGormRepository struct {
	db *gorm.DB
}

func NewOrderEventGormRepository(db *gorm.DB) *OrderEventGormRepository {
	return &OrderEventGormRepository{db: db}
}

func (r *OrderEventGormRepository) Append(ctx context.Context, event model.OrderStatusEvent) error {
	return r.db.WithContext(ctx).Create(&event).Error
}

func (r *OrderEventGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusEvent, error) {
	var events []model.OrderStatusEvent
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
