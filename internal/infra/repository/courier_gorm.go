package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CourierGormRepository struct {
	db *gorm.DB
}

func NewCourierGormRepository(db *gorm.DB) *CourierGormRepository {
	return &CourierGormRepository{db: db}
}

func (r *CourierGormRepository) Create(ctx context.Context, courier *model.Courier) error {
	if err := r.db.WithContext(ctx).Create(courier).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrConflict
		}
		return err
	}
	return nil
}

func (r *CourierGormRepository) FindByID(ctx context.Context, courierID int64) (model.Courier, error) {
	var c model.Courier
	err := r.db.WithContext(ctx).Where("id = ?", courierID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Courier{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Courier{}, err
	}
	return c, nil
}

func (r *CourierGormRepository) FindByEmail(ctx context.Context, email string) (model.Courier, error) {
	var c model.Courier
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Courier{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Courier{}, err
	}
	return c, nil
}

func (r *CourierGormRepository) Update(ctx context.Context, courier *model.Courier) error {
	if err := r.db.WithContext(ctx).Save(courier).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrConflict
		}
		return err
	}
	return nil
}

func (r *CourierGormRepository) Delete(ctx context.Context, courierID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", courierID).Delete(&model.Courier{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CourierGormRepository) ListByRestaurantID(ctx context.Context, restaurantID int64, page int, limit int) ([]model.Courier, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Courier{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&total).Error; err != nil {
		return []model.Courier{}, 0, err
	}

	var items []model.Courier
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Courier{}, 0, err
	}

	return items, total, nil
}

func (r *CourierGormRepository) CountByRestaurantID(ctx context.Context, restaurantID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Courier{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&total).Error
	return total, err
}

func (r *CourierGormRepository) DetachByRestaurantID(ctx context.Context, restaurantID int64) error {
	return r.db.WithContext(ctx).Model(&model.Courier{}).
		Where("restaurant_id = ?", restaurantID).
		Update("restaurant_id", 0).Error
}

func (r *CourierGormRepository) IncrementDeliveries(ctx context.Context, courierID int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Courier{}).
		Where("id = ?", courierID).
		Updates(map[string]interface{}{
			"total_deliveries": gorm.Expr("total_deliveries + 1"),
			"last_delivery_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
