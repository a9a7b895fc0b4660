package model

import "time"

// 注文明細。作成時点の商品名・単価を凍結して持つ。
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`

	ProductNameSnapshot string  `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPriceSnapshot   float64 `gorm:"not null" json:"price"`
	Quantity            int64   `gorm:"not null;default:1" json:"quantity"`

	SpecialInstructions string `gorm:"type:varchar(500)" json:"special_instructions"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
