package model

import "time"

// 注文の支払い方法。
type OrderPaymentMethod string

const (
	OrderPaymentCash     OrderPaymentMethod = "cash"
	OrderPaymentCard     OrderPaymentMethod = "card"
	OrderPaymentMealCard OrderPaymentMethod = "meal_card"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// 評価した側。
type RatedBy string

const (
	RatedByConsumer   RatedBy = "consumer"
	RatedByCourier    RatedBy = "courier"
	RatedByRestaurant RatedBy = "restaurant"
)

// 注文。唯一の状態遷移を持つエンティティ。
// statusの変更はOrderUsecaseの遷移経由のみ。削除エンドポイントは存在しない。
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// ORD-<year><month>-<seq> 形式。初回保存時に一度だけ採番する。
	OrderNumber string `gorm:"type:varchar(30);not null;uniqueIndex" json:"order_number"`

	ConsumerID   int64  `gorm:"not null;index" json:"consumer_id"`
	RestaurantID int64  `gorm:"not null;index" json:"restaurant_id"`
	CourierID    *int64 `gorm:"index" json:"courier_id"`

	DeliveryAddress  string   `gorm:"type:varchar(500)" json:"delivery_address"`
	DeliveryLocation GeoPoint `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_location"`

	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	TotalPrice  float64 `gorm:"not null" json:"total_price"`
	DeliveryFee float64 `gorm:"not null;default:0" json:"delivery_fee"`
	Tax         float64 `gorm:"not null;default:0" json:"tax"`
	Discount    float64 `gorm:"not null;default:0" json:"discount"`
	// TotalPrice + DeliveryFee + Tax - Discount
	FinalPrice float64 `gorm:"not null" json:"final_price"`

	PaymentMethod OrderPaymentMethod `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_method"`
	PaymentStatus PaymentStatus      `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`

	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time `json:"actual_delivery_time"`

	RatingScore  *int       `json:"rating_score"`
	RatingReview string     `gorm:"type:text" json:"rating_review"`
	RatedBy      RatedBy    `gorm:"type:varchar(20)" json:"rated_by"`
	RatedAt      *time.Time `json:"rated_at"`

	CancellationReason string `gorm:"type:varchar(500)" json:"cancellation_reason"`
	Notes              string `gorm:"type:text" json:"notes"`

	// 同一consumerからの二重送信を1注文に畳む。
	IdempotencyKey string `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
