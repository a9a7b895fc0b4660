package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ConsumerGormRepository struct {
	db *gorm.DB
}

func NewConsumerGormRepository(db *gorm.DB) *ConsumerGormRepository {
	return &ConsumerGormRepository{db: db}
}

func (r *ConsumerGormRepository) Create(ctx context.Context, consumer *model.Consumer) error {
	if err := r.db.WithContext(ctx).Create(consumer).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ConsumerGormRepository) FindByID(ctx context.Context, consumerID int64) (model.Consumer, error) {
	var c model.Consumer
	err := r.db.WithContext(ctx).Where("id = ?", consumerID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Consumer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Consumer{}, err
	}
	return c, nil
}

func (r *ConsumerGormRepository) FindByEmail(ctx context.Context, email string) (model.Consumer, error) {
	var c model.Consumer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Consumer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Consumer{}, err
	}
	return c, nil
}

func (r *ConsumerGormRepository) Update(ctx context.Context, consumer *model.Consumer) error {
	if err := r.db.WithContext(ctx).Save(consumer).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrConflict
		}
		return err
	}
	return nil
}
