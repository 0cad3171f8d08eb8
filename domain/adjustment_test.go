package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAdjustment(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		typ      AdjustmentType
		quantity int64
		want     int64
		wantErr  bool
	}{
		{name: "increase", current: 5, typ: AdjustmentIncrease, quantity: 3, want: 8},
		{name: "decrease", current: 5, typ: AdjustmentDecrease, quantity: 3, want: 2},
		{name: "decrease to exactly zero", current: 5, typ: AdjustmentDecrease, quantity: 5, want: 0},
		{name: "decrease below zero rejected", current: 10, typ: AdjustmentDecrease, quantity: 11, wantErr: true},
		{name: "zero quantity rejected", current: 5, typ: AdjustmentIncrease, quantity: 0, wantErr: true},
		{name: "negative quantity rejected", current: 5, typ: AdjustmentDecrease, quantity: -1, wantErr: true},
		{name: "unknown type rejected", current: 5, typ: AdjustmentType("transfer"), quantity: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyAdjustment(tt.current, tt.typ, tt.quantity)
			if tt.wantErr {
				require.Error(t, err)
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				// No state change on rejection.
				assert.Equal(t, tt.current, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyAdjustmentOverdrawKeepsQuantity(t *testing.T) {
	got, err := ApplyAdjustment(10, AdjustmentDecrease, 11)
	require.ErrorIs(t, err, ErrStockBelowZero)
	assert.Equal(t, int64(10), got)
}

func TestValidAdjustmentType(t *testing.T) {
	assert.True(t, ValidAdjustmentType(AdjustmentIncrease))
	assert.True(t, ValidAdjustmentType(AdjustmentDecrease))
	assert.False(t, ValidAdjustmentType(AdjustmentType("")))
	assert.False(t, ValidAdjustmentType(AdjustmentType("reset")))
}
