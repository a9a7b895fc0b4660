package repository

import (
	"context"

	"app/internal/domain/model"
)

type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *model.Restaurant) error
	FindByID(ctx context.Context, restaurantID int64) (model.Restaurant, error)
	Update(ctx context.Context, restaurant *model.Restaurant) error
	Delete(ctx context.Context, restaurantID int64) error
	ListByOwnerID(ctx context.Context, ownerID int64, page int, limit int) ([]model.Restaurant, int64, error)

	// 公開ブラウズ用。openOnly=trueなら営業中のみ。
	ListPublic(ctx context.Context, openOnly bool, page int, limit int) ([]model.Restaurant, int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, productID int64) (model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID int64) error
	ListByRestaurantID(ctx context.Context, restaurantID int64, page int, limit int) ([]model.Product, int64, error)

	// レストラン削除時のカスケード。
	DeleteByRestaurantID(ctx context.Context, restaurantID int64) error
}
