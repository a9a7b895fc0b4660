package model

import "time"

// クーリエの稼働状態。
type CourierStatus string

const (
	CourierStatusOffline    CourierStatus = "offline"
	CourierStatusOnline     CourierStatus = "online"
	CourierStatusBreak      CourierStatus = "break"
	CourierStatusOnDelivery CourierStatus = "on_delivery"
)

func ValidCourierStatus(s CourierStatus) bool {
	switch s {
	case CourierStatusOffline, CourierStatusOnline, CourierStatusBreak, CourierStatusOnDelivery:
		return true
	}
	return false
}

// 車両種別。
type VehicleKind string

const (
	VehicleMotorcycle VehicleKind = "motorcycle"
	VehicleBicycle    VehicleKind = "bicycle"
	VehicleCar        VehicleKind = "car"
	VehicleScooter    VehicleKind = "scooter"
)

// クーリエアカウント。常にちょうど1つのレストランに所属する。
// 所属レストランが消えた場合はRestaurantID=0のまま孤立し、
// 2ホップの所有チェックが失敗して以後の操作は閉じる。
type Courier struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"type:varchar(30);not null" json:"phone"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'courier'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	RestaurantID int64 `gorm:"not null;index" json:"restaurant_id"`

	Status          CourierStatus `gorm:"type:varchar(20);not null;default:'offline'" json:"status"`
	CurrentLocation GeoPoint      `gorm:"embedded;embeddedPrefix:loc_" json:"current_location"`

	TotalDeliveries int64      `gorm:"not null;default:0" json:"total_deliveries"`
	LastDeliveryAt  *time.Time `json:"last_delivery_at"`

	Rating      float64 `gorm:"not null;default:5" json:"rating"`
	ReviewCount int64   `gorm:"not null;default:0" json:"review_count"`

	Vehicle      VehicleKind `gorm:"type:varchar(20)" json:"vehicle"`
	VehiclePlate string      `gorm:"type:varchar(20)" json:"vehicle_plate"`

	// オーナー作成後にadminが承認するまでログイン不可。
	IsVerified bool `gorm:"not null;default:false" json:"is_verified"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
