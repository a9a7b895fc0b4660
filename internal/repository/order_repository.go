package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	// 二重送信対策の検索（同じキーなら同じ注文を返す）。
	FindByIdempotencyKey(ctx context.Context, consumerID int64, key string) (model.Order, bool, error)

	// orderNumber/idempotencyKeyの重複はErrConflictで返す。
	Create(ctx context.Context, order *model.Order) error

	// 採番用の全件数。
	CountAll(ctx context.Context) (int64, error)

	// status=fromの行だけを更新するCAS。行が無ければErrConflict。
	UpdateStatusFrom(ctx context.Context, orderID int64, from, to model.OrderStatus) error

	// cancelled遷移＋キャンセル理由の記録を1文で行うCAS。
	CancelFrom(ctx context.Context, orderID int64, from model.OrderStatus, reason string) error

	// クーリエ割当＋status遷移を1文で行うCAS。
	AssignCourierFrom(ctx context.Context, orderID int64, courierID int64, from, to model.OrderStatus) error

	// delivered遷移＋配達時刻の記録を1文で行うCAS。
	MarkDeliveredFrom(ctx context.Context, orderID int64, from model.OrderStatus, deliveredAt time.Time) error

	SetRating(ctx context.Context, orderID int64, score int, review string, by model.RatedBy, at time.Time) error

	ListByConsumerID(ctx context.Context, consumerID int64, page int, limit int) ([]model.Order, int64, error)
	ListByRestaurantID(ctx context.Context, restaurantID int64, page int, limit int) ([]model.Order, int64, error)
	ListByCourierID(ctx context.Context, courierID int64, page int, limit int) ([]model.Order, int64, error)
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}

// ステータス履歴。追記と読み出しだけを約束し、更新・削除は存在しない。
type OrderEventRepository interface {
	Append(ctx context.Context, event model.OrderStatusEvent) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusEvent, error)
}
