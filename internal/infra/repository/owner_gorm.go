package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type OwnerGormRepository struct {
	db *gorm.DB
}

func NewOwnerGormRepository(db *gorm.DB) *OwnerGormRepository {
	return &OwnerGormRepository{db: db}
}

func (r *OwnerGormRepository) Create(ctx context.Context, owner *model.Owner) error {
	if err := r.db.WithContext(ctx).Create(owner).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrConflict
		}
		return err
	}
	return nil
}

func (r *OwnerGormRepository) FindByID(ctx context.Context, ownerID int64) (model.Owner, error) {
	var o model.Owner
	err := r.db.WithContext(ctx).Where("id = ?", ownerID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Owner{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Owner{}, err
	}
	return o, nil
}

func (r *OwnerGormRepository) FindByEmail(ctx context.Context, email string) (model.Owner, error) {
	var o model.Owner
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Owner{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Owner{}, err
	}
	return o, nil
}

func (r *OwnerGormRepository) Update(ctx context.Context, owner *model.Owner) error {
	if err := r.db.WithContext(ctx).Save(owner).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrConflict
		}
		return err
	}
	return nil
}

func (r *OwnerGormRepository) List(ctx context.Context, page int, limit int) ([]model.Owner, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Owner{}).Count(&total).Error; err != nil {
		return []model.Owner{}, 0, err
	}

	var items []model.Owner
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Owner{}, 0, err
	}

	return items, total, nil
}

func (r *OwnerGormRepository) ExpiredSubscriptions(ctx context.Context, now time.Time) ([]model.Owner, error) {
	var items []model.Owner
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND subscription_end_date IS NOT NULL AND subscription_end_date < ?", true, now).
		Order("subscription_end_date asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OwnerGormRepository) ExpiringSubscriptions(ctx context.Context, now time.Time, until time.Time) ([]model.Owner, error) {
	var items []model.Owner
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND subscription_end_date >= ? AND subscription_end_date <= ?", true, now, until).
		Order("subscription_end_date asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
