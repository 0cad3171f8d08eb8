package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTransitions(t *testing.T) {
	statuses := []OrderStatus{OrderPending, OrderApproved, OrderRejected, OrderShipped, OrderDelivered}
	legal := map[[2]OrderStatus]bool{
		{OrderPending, OrderApproved}:  true,
		{OrderPending, OrderRejected}:  true,
		{OrderApproved, OrderShipped}:  true,
		{OrderShipped, OrderDelivered}: true,
	}

	// Every pair outside the table must be unreachable: no skips, no
	// backward moves, nothing out of a terminal state.
	for _, from := range statuses {
		for _, to := range statuses {
			want := legal[[2]OrderStatus{from, to}]
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderTerminalStates(t *testing.T) {
	assert.True(t, OrderRejected.Terminal())
	assert.True(t, OrderDelivered.Terminal())
	assert.False(t, OrderPending.Terminal())
	assert.False(t, OrderApproved.Terminal())
	assert.False(t, OrderShipped.Terminal())
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderApproved, OrderRejected, OrderShipped, OrderDelivered} {
		assert.True(t, ValidOrderStatus(s))
	}
	assert.False(t, ValidOrderStatus(OrderStatus("cancelled")))
	assert.False(t, ValidOrderStatus(OrderStatus("")))
}

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{UnitPrice: 100, Quantity: 2},
		{UnitPrice: 50, Quantity: 3},
	}
	assert.Equal(t, 350.0, OrderTotal(items))
	assert.Zero(t, OrderTotal(nil))
}

func TestOrderTotalCapturedPriceWins(t *testing.T) {
	// The line carries the price captured at creation; the order total is
	// derived from it alone, so later medicine price changes cannot alter
	// existing orders.
	items := []OrderItem{{MedicineID: 7, UnitPrice: 10, Quantity: 4}}
	total := OrderTotal(items)
	assert.Equal(t, 40.0, total)
	assert.Equal(t, total, OrderTotal(items))
}
