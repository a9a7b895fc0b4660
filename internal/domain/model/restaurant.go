package model

import (
	"time"

	"gorm.io/datatypes"
)

// レストラン。ちょうど1人のOwnerに属し、OwnerIDは作成後変更しない。
type Restaurant struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     int64  `gorm:"not null;index" json:"owner_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Address     string `gorm:"type:varchar(500);not null" json:"address"`
	Phone       string `gorm:"type:varchar(30);not null" json:"phone"`

	IsOpen   bool     `gorm:"not null;default:true" json:"is_open"`
	Location GeoPoint `gorm:"embedded;embeddedPrefix:loc_" json:"location"`

	CuisineTypes datatypes.JSONSlice[string] `json:"cuisine_types"`

	Rating      float64 `gorm:"not null;default:5" json:"rating"`
	ReviewCount int64   `gorm:"not null;default:0" json:"review_count"`

	// 平均配達時間（分）。
	DeliveryTime int `json:"delivery_time"`

	MinimumOrder float64 `gorm:"not null;default:0" json:"minimum_order"`
	DeliveryFee  float64 `gorm:"not null;default:0" json:"delivery_fee"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
