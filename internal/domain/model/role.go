package model

// システムの4つのアカウント種別。作成時に固定され、以後変わらない。
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
	RoleCourier  Role = "courier"
	RoleConsumer Role = "consumer"
)

// 認証済みリクエストの主体（JWTのsub + role）。
type Actor struct {
	ID   int64
	Role Role
}

// 経度・緯度のペア。[lon, lat]順で扱う。
type GeoPoint struct {
	Lon float64 `gorm:"column:lon" json:"lon"`
	Lat float64 `gorm:"column:lat" json:"lat"`
}
