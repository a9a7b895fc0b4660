package model

import "time"

// 遷移を実行した側。
type ChangedBy string

const (
	ChangedBySystem   ChangedBy = "system"
	ChangedByAdmin    ChangedBy = "admin"
	ChangedByOwner    ChangedBy = "owner"
	ChangedByCourier  ChangedBy = "courier"
	ChangedByConsumer ChangedBy = "consumer"
)

// 注文ステータス履歴の1エントリ。追記のみで、更新・削除はしない。
type OrderStatusEvent struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64       `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	ChangedBy ChangedBy   `gorm:"type:varchar(20);not null" json:"changed_by"`
	Note      string      `gorm:"type:varchar(500)" json:"note"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime;index" json:"timestamp"`
}
