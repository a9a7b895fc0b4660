package model

import "time"

// 商品。ちょうど1つのレストランに属する。
type Product struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID int64  `gorm:"not null;index" json:"restaurant_id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Description  string `gorm:"type:text" json:"description"`

	// 0以上。注文時にスナップショットされ、後から変えても既存注文に影響しない。
	Price float64 `gorm:"not null" json:"price"`

	Category    string `gorm:"type:varchar(100)" json:"category"`
	IsAvailable bool   `gorm:"not null;default:true" json:"is_available"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
