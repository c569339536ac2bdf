package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses() {
		got, ok := ParseOrderStatus(string(s))
		assert.True(t, ok, s)
		assert.Equal(t, s, got)
	}
	for _, bad := range []string{"", "Paid", "refunded", "pending", "awaiting payment"} {
		_, ok := ParseOrderStatus(bad)
		assert.False(t, ok, bad)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusAwaitingPayment, OrderStatusPaid, true},
		{OrderStatusAwaitingPayment, OrderStatusCancelled, true},
		{OrderStatusAwaitingPayment, OrderStatusShipped, false},
		{OrderStatusAwaitingPayment, OrderStatusAwaitingPayment, false},
		{OrderStatusPaid, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusAwaitingPayment, false},
		{OrderStatusShipped, OrderStatusCompleted, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.True(t, OrderStatusCompleted.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPaid.Terminal())
}

func TestTotalPriceIsOrderIndependent(t *testing.T) {
	lines := []OrderLine{
		{ProductID: "a", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2},
		{ProductID: "b", UnitPrice: decimal.RequireFromString("0.10"), Quantity: 3},
		{ProductID: "c", UnitPrice: decimal.RequireFromString("4.99"), Quantity: 1},
	}
	reversed := []OrderLine{lines[2], lines[1], lines[0]}

	want := decimal.RequireFromString("25.29")
	assert.True(t, want.Equal(TotalPrice(lines)), TotalPrice(lines).String())
	assert.True(t, want.Equal(TotalPrice(reversed)))
	assert.True(t, decimal.Zero.Equal(TotalPrice(nil)))
}

func TestUserDefaultAddressValid(t *testing.T) {
	u := &User{}
	assert.True(t, u.DefaultAddressValid())

	u.DefaultAddressID = "a1"
	assert.False(t, u.DefaultAddressValid())

	u.AddressIDs = []string{"a1", "a2"}
	assert.True(t, u.DefaultAddressValid())

	u.DefaultAddressID = ""
	assert.False(t, u.DefaultAddressValid())
}

func TestRemoveID(t *testing.T) {
	ids := []string{"a", "b", "c"}
	out, ok := RemoveID(ids, "b")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "c"}, out)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	out, ok = RemoveID(ids, "z")
	assert.False(t, ok)
	assert.Equal(t, ids, out)
}

func TestNowFitsStoredPrecision(t *testing.T) {
	now := Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(TimePrecision))
}
