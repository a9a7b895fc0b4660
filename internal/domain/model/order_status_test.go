package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	// オーナーの正常系
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusConfirmed, ChangedByOwner))
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusCancelled, ChangedByOwner))
	assert.True(t, CanTransition(OrderStatusConfirmed, OrderStatusOnWay, ChangedByOwner))
	assert.True(t, CanTransition(OrderStatusPreparing, OrderStatusOnWay, ChangedByOwner))

	// クーリエはon_way→deliveredだけ
	assert.True(t, CanTransition(OrderStatusOnWay, OrderStatusDelivered, ChangedByCourier))
	assert.False(t, CanTransition(OrderStatusOnWay, OrderStatusDelivered, ChangedByOwner))
	assert.False(t, CanTransition(OrderStatusConfirmed, OrderStatusDelivered, ChangedByCourier))

	// コンシューマは遷移させられない
	assert.False(t, CanTransition(OrderStatusPending, OrderStatusCancelled, ChangedByConsumer))

	// 逆行・スキップは不可
	assert.False(t, CanTransition(OrderStatusConfirmed, OrderStatusPending, ChangedByOwner))
	assert.False(t, CanTransition(OrderStatusPending, OrderStatusDelivered, ChangedByOwner))
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	actors := []ChangedBy{ChangedBySystem, ChangedByAdmin, ChangedByOwner, ChangedByCourier, ChangedByConsumer}
	all := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOnWay, OrderStatusDelivered, OrderStatusCancelled,
	}

	for _, terminal := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		assert.True(t, TerminalStatus(terminal))
		assert.Empty(t, NextStatuses(terminal))
		for _, to := range all {
			for _, by := range actors {
				assert.False(t, CanTransition(terminal, to, by), "%s -> %s by %s", terminal, to, by)
			}
		}
	}
}

func TestNextStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]OrderStatus{OrderStatusConfirmed, OrderStatusCancelled},
		NextStatuses(OrderStatusPending),
	)
	assert.ElementsMatch(t,
		[]OrderStatus{OrderStatusPreparing, OrderStatusCancelled, OrderStatusOnWay},
		NextStatuses(OrderStatusConfirmed),
	)
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusPreparing))
	assert.False(t, ValidOrderStatus("shipped"))
}
