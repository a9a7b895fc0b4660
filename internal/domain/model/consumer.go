package model

import (
	"time"

	"gorm.io/datatypes"
)

// 保存済み住所（Home / Work など）。consumers行のJSONB列に持つ。
type SavedAddress struct {
	Label     string   `json:"label"`
	Address   string   `json:"address"`
	Location  GeoPoint `json:"location"`
	IsDefault bool     `json:"is_default"`
}

// 注文する側のアカウント。
type Consumer struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"type:varchar(30);not null" json:"phone"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'consumer'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	Address  string   `gorm:"type:varchar(500);not null" json:"address"`
	Location GeoPoint `gorm:"embedded;embeddedPrefix:loc_" json:"location"`

	SavedAddresses      datatypes.JSONSlice[SavedAddress] `json:"saved_addresses"`
	FavoriteRestaurants datatypes.JSONSlice[int64]        `json:"favorite_restaurants"`

	IsEmailVerified bool `gorm:"not null;default:false" json:"is_email_verified"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
