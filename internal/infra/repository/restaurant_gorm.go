package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type RestaurantGormRepository struct {
	db *gorm.DB
}

func NewRestaurantGormRepository(db *gorm.DB) *RestaurantGormRepository {
	return &RestaurantGormRepository{db: db}
}

func (r *RestaurantGormRepository) Create(ctx context.Context, restaurant *model.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

func (r *RestaurantGormRepository) FindByID(ctx context.Context, restaurantID int64) (model.Restaurant, error) {
	var rest model.Restaurant
	err := r.db.WithContext(ctx).Where("id = ?", restaurantID).First(&rest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Restaurant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return rest, nil
}

func (r *RestaurantGormRepository) Update(ctx context.Context, restaurant *model.Restaurant) error {
	return r.db.WithContext(ctx).Save(restaurant).Error
}

func (r *RestaurantGormRepository) Delete(ctx context.Context, restaurantID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", restaurantID).Delete(&model.Restaurant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *RestaurantGormRepository) ListByOwnerID(ctx context.Context, ownerID int64, page int, limit int) ([]model.Restaurant, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Restaurant{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error; err != nil {
		return []model.Restaurant{}, 0, err
	}

	var items []model.Restaurant
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Restaurant{}, 0, err
	}

	return items, total, nil
}

func (r *RestaurantGormRepository) ListPublic(ctx context.Context, openOnly bool, page int, limit int) ([]model.Restaurant, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Restaurant{})
	if openOnly {
		q = q.Where("is_open = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Restaurant{}, 0, err
	}

	var items []model.Restaurant
	offset := (page - 1) * limit
	if err := q.Order("rating desc, created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Restaurant{}, 0, err
	}

	return items, total, nil
}
