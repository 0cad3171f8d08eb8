package messaging

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopPublisherDropsEvents(t *testing.T) {
	p := NewNoopPublisher()
	ctx := context.Background()

	assert.NoError(t, p.PublishStockAdjusted(ctx, &StockAdjustedEvent{MedicineID: 1}))
	assert.NoError(t, p.PublishOrderStatus(ctx, &OrderStatusEvent{OrderID: 1}))
	assert.NoError(t, p.PublishCustodyTransfer(ctx, &CustodyEvent{ShipmentID: "s"}))
	assert.NoError(t, p.Close())
}

// Every event carries a type and a millisecond timestamp on the wire.
func TestEventWireFormat(t *testing.T) {
	events := []any{
		&StockAdjustedEvent{Type: "stock.adjusted", MedicineID: 7, Timestamp: 1_700_000_000_000},
		&OrderStatusEvent{Type: "order.status_changed", OrderID: 7, Timestamp: 1_700_000_000_000},
		&CustodyEvent{Type: "shipment.custody_transferred", ShipmentID: "s", Timestamp: 1_700_000_000_000},
	}

	for _, event := range events {
		payload, err := json.Marshal(event)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(payload, &decoded))
		assert.NotEmpty(t, decoded["type"])
		assert.Equal(t, float64(1_700_000_000_000), decoded["timestamp"])
	}
}
