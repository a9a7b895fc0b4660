package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// 管理者アカウントの保存・取得。
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByID(ctx context.Context, adminID int64) (model.Admin, error)
	FindByEmail(ctx context.Context, email string) (model.Admin, error)
}

// オーナーアカウントの保存・取得とサブスク走査。
type OwnerRepository interface {
	Create(ctx context.Context, owner *model.Owner) error
	FindByID(ctx context.Context, ownerID int64) (model.Owner, error)
	FindByEmail(ctx context.Context, email string) (model.Owner, error)
	Update(ctx context.Context, owner *model.Owner) error
	List(ctx context.Context, page int, limit int) ([]model.Owner, int64, error)

	// isActiveなオーナーのうち subscriptionEndDate < now のもの。
	ExpiredSubscriptions(ctx context.Context, now time.Time) ([]model.Owner, error)
	// isActiveなオーナーのうち subscriptionEndDate が [now, until] のもの。
	ExpiringSubscriptions(ctx context.Context, now time.Time, until time.Time) ([]model.Owner, error)
}

// クーリエアカウントの保存・取得。
type CourierRepository interface {
	Create(ctx context.Context, courier *model.Courier) error
	FindByID(ctx context.Context, courierID int64) (model.Courier, error)
	FindByEmail(ctx context.Context, email string) (model.Courier, error)
	Update(ctx context.Context, courier *model.Courier) error
	Delete(ctx context.Context, courierID int64) error
	ListByRestaurantID(ctx context.Context, restaurantID int64, page int, limit int) ([]model.Courier, int64, error)
	CountByRestaurantID(ctx context.Context, restaurantID int64) (int64, error)

	// レストラン削除時の切り離し。restaurant_id=0のクーリエは孤立扱い。
	DetachByRestaurantID(ctx context.Context, restaurantID int64) error

	// 配達完了カウンタを+1してlast_delivery_atを更新。
	IncrementDeliveries(ctx context.Context, courierID int64, at time.Time) error
}

// コンシューマアカウントの保存・取得。
type ConsumerRepository interface {
	Create(ctx context.Context, consumer *model.Consumer) error
	FindByID(ctx context.Context, consumerID int64) (model.Consumer, error)
	FindByEmail(ctx context.Context, email string) (model.Consumer, error)
	Update(ctx context.Context, consumer *model.Consumer) error
}
