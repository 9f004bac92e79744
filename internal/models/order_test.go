package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderShipped,
	OrderDelivered, OrderCancelled, OrderRefunded,
}

func TestCanTransitionMatchesTransitionTable(t *testing.T) {
	legal := map[OrderStatus]map[OrderStatus]bool{
		OrderPending:   {OrderConfirmed: true, OrderCancelled: true},
		OrderConfirmed: {OrderShipped: true, OrderCancelled: true},
		OrderShipped:   {OrderDelivered: true},
		OrderDelivered: {OrderRefunded: true},
		OrderCancelled: {},
		OrderRefunded:  {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			got := CanTransition(from, to)
			want := legal[from][to]
			assert.Equal(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionRejectsUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("archived", OrderConfirmed))
	assert.False(t, CanTransition(OrderPending, "archived"))
}

func TestAllowedTransitionsTerminalStatesAreEmpty(t *testing.T) {
	assert.Empty(t, AllowedTransitions(OrderCancelled))
	assert.Empty(t, AllowedTransitions(OrderRefunded))
	assert.True(t, OrderCancelled.Terminal())
	assert.True(t, OrderRefunded.Terminal())
	assert.False(t, OrderPending.Terminal())
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	first := AllowedTransitions(OrderPending)
	first[0] = OrderRefunded

	second := AllowedTransitions(OrderPending)
	assert.Equal(t, []OrderStatus{OrderConfirmed, OrderCancelled}, second)
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OrderStatus("unknown").Valid())
	assert.False(t, OrderStatus("").Valid())
}
