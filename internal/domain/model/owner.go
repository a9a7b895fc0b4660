package model

import "time"

// サブスク支払い方法。
type PaymentMethodKind string

const (
	PaymentMethodCreditCard   PaymentMethodKind = "credit_card"
	PaymentMethodBankTransfer PaymentMethodKind = "bank_transfer"
	PaymentMethodOther        PaymentMethodKind = "other"
)

// サブスク支払い情報のスナップショット。owners行に埋め込む。
type SubscriptionPaymentInfo struct {
	PaymentMethod   PaymentMethodKind `gorm:"type:varchar(20)" json:"payment_method"`
	LastPaymentDate *time.Time        `json:"last_payment_date"`
	NextPaymentDate *time.Time        `json:"next_payment_date"`
	Amount          float64           `json:"amount"`
	Currency        string            `gorm:"type:varchar(10);default:'TRY'" json:"currency"`
}

// レストランオーナー（パトロン）アカウント。
// サブスク期間が切れるとログイン不可（isActiveとは別のエラーで返す）。
type Owner struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"type:varchar(30);not null" json:"phone"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'owner'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	// サブスク期間。EndDateはnil可（無期限扱い）。
	// EndDateがある場合は StartDate <= EndDate を保つ。
	SubscriptionStartDate time.Time  `gorm:"not null" json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `gorm:"index" json:"subscription_end_date"`

	// このオーナーが1レストランに登録できるクーリエ数の上限。
	MaxCouriers int `gorm:"not null;default:5" json:"max_couriers"`

	PaymentInfo SubscriptionPaymentInfo `gorm:"embedded;embeddedPrefix:payment_" json:"payment_info"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
