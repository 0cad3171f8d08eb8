package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowStock(t *testing.T) {
	tests := []struct {
		name     string
		quantity int64
		minimum  int64
		want     bool
	}{
		{name: "above minimum", quantity: 11, minimum: 10, want: false},
		{name: "exactly at minimum counts as low", quantity: 10, minimum: 10, want: true},
		{name: "below minimum", quantity: 9, minimum: 10, want: true},
		{name: "zero stock", quantity: 0, minimum: 0, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Medicine{Quantity: tt.quantity, MinimumStock: tt.minimum}
			assert.Equal(t, tt.want, m.LowStock())
		})
	}
}

func TestExpiringSoon(t *testing.T) {
	now := int64(1_700_000_000_000)
	tests := []struct {
		name   string
		expiry int64
		want   bool
	}{
		{name: "already expired", expiry: now - 1, want: true},
		{name: "exactly at horizon", expiry: now + ExpiryHorizonMs, want: true},
		{name: "one ms past horizon", expiry: now + ExpiryHorizonMs + 1, want: false},
		{name: "far in the future", expiry: now + 10*ExpiryHorizonMs, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Medicine{ExpiryDate: tt.expiry}
			assert.Equal(t, tt.want, m.ExpiringSoon(now))
		})
	}
}

func TestExpiryHorizonIsThirtyDays(t *testing.T) {
	assert.Equal(t, int64(2_592_000_000), ExpiryHorizonMs)
}

func TestComputeInventoryStats(t *testing.T) {
	now := int64(1_700_000_000_000)
	far := now + 10*ExpiryHorizonMs
	medicines := []Medicine{
		{Quantity: 5, UnitPrice: 10, MinimumStock: 2, ExpiryDate: far},
		{Quantity: 0, UnitPrice: 20, MinimumStock: 0, ExpiryDate: now + 1},
	}

	stats := ComputeInventoryStats(medicines, now)
	assert.Equal(t, 50.0, stats.TotalValue)
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 1, stats.ExpiringSoonCount)
}

func TestComputeInventoryStatsEmpty(t *testing.T) {
	stats := ComputeInventoryStats(nil, 0)
	assert.Zero(t, stats.TotalValue)
	assert.Zero(t, stats.TotalItems)
	assert.Zero(t, stats.LowStockCount)
	assert.Zero(t, stats.ExpiringSoonCount)
}

func TestApplyFilter(t *testing.T) {
	now := int64(1_700_000_000_000)
	far := now + 10*ExpiryHorizonMs
	low := Medicine{ID: 1, Quantity: 1, MinimumStock: 5, ExpiryDate: far}
	expiring := Medicine{ID: 2, Quantity: 50, MinimumStock: 5, ExpiryDate: now + 1}
	healthy := Medicine{ID: 3, Quantity: 50, MinimumStock: 5, ExpiryDate: far}
	all := []Medicine{low, expiring, healthy}

	assert.Len(t, ApplyFilter(all, FilterAll, now), 3)

	lowStock := ApplyFilter(all, FilterLowStock, now)
	assert.Len(t, lowStock, 1)
	assert.Equal(t, int64(1), lowStock[0].ID)

	expSoon := ApplyFilter(all, FilterExpiringSoon, now)
	assert.Len(t, expSoon, 1)
	assert.Equal(t, int64(2), expSoon[0].ID)
}

func TestValidFilter(t *testing.T) {
	assert.True(t, ValidFilter(FilterAll))
	assert.True(t, ValidFilter(FilterLowStock))
	assert.True(t, ValidFilter(FilterExpiringSoon))
	assert.False(t, ValidFilter(MedicineFilter("expired")))
}

func TestFixedOptionSets(t *testing.T) {
	assert.Len(t, Categories, 9)
	assert.Len(t, DosageForms, 9)
	assert.True(t, ValidCategory("Antibiotics"))
	assert.True(t, ValidCategory("Other"))
	assert.False(t, ValidCategory("antibiotics"))
	assert.True(t, ValidDosageForm("Tablet"))
	assert.False(t, ValidDosageForm("Pill"))
}
