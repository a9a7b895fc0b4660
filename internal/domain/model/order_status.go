package model

// 注文ステータス。
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusOnWay     OrderStatus = "on_way"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 有効な遷移1本。誰が実行できるかも込みで定義する。
type Transition struct {
	From OrderStatus
	To   OrderStatus
	By   ChangedBy
}

// 状態遷移の正。ここにない遷移は全部無効。
// クーリエ割当は confirmed/preparing から直接 on_way に飛ぶ
// （preparingを経ずに出発する運用をモデル化したもの）。
var validTransitions = []Transition{
	{From: OrderStatusPending, To: OrderStatusConfirmed, By: ChangedByOwner},
	{From: OrderStatusPending, To: OrderStatusCancelled, By: ChangedByOwner},

	{From: OrderStatusConfirmed, To: OrderStatusPreparing, By: ChangedByOwner},
	{From: OrderStatusConfirmed, To: OrderStatusCancelled, By: ChangedByOwner},
	{From: OrderStatusConfirmed, To: OrderStatusOnWay, By: ChangedByOwner},

	{From: OrderStatusPreparing, To: OrderStatusOnWay, By: ChangedByOwner},
	{From: OrderStatusPreparing, To: OrderStatusCancelled, By: ChangedByOwner},

	{From: OrderStatusOnWay, To: OrderStatusDelivered, By: ChangedByCourier},
}

type transitionKey struct {
	From OrderStatus
	To   OrderStatus
	By   ChangedBy
}

var transitionSet = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.By}] = true
	}
	return m
}()

// 既知のステータスか。
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOnWay, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// byがfromからtoへ遷移させてよいか。
func CanTransition(from, to OrderStatus, by ChangedBy) bool {
	return transitionSet[transitionKey{From: from, To: to, By: by}]
}

// fromから出られる遷移先の一覧（エラーメッセージ用）。
func NextStatuses(from OrderStatus) []OrderStatus {
	var nexts []OrderStatus
	seen := map[OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == from && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// delivered / cancelled からは出られない。
func TerminalStatus(s OrderStatus) bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}
