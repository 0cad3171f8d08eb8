package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipmentStatusAdvance(t *testing.T) {
	next, err := ShipmentCreated.Advance()
	require.NoError(t, err)
	assert.Equal(t, ShipmentInTransit, next)

	next, err = ShipmentInTransit.Advance()
	require.NoError(t, err)
	assert.Equal(t, ShipmentDelivered, next)

	_, err = ShipmentDelivered.Advance()
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = ShipmentStatus("lost").Advance()
	require.Error(t, err)
}

func TestDispenseIsOneShot(t *testing.T) {
	// Two dispense attempts against the same ledger: the first goes through
	// and appends its entry, the second must be rejected by the same check.
	ledger := []LedgerEntry{
		{Action: ActionManufactured},
		{Action: ActionShipped},
		{Action: ActionDelivered},
	}

	require.False(t, AlreadyDispensed(ledger))
	ledger = append(ledger, LedgerEntry{Action: ActionDispensed})

	assert.True(t, AlreadyDispensed(ledger))
}

func TestAlreadyDispensed(t *testing.T) {
	assert.False(t, AlreadyDispensed(nil))
	assert.False(t, AlreadyDispensed([]LedgerEntry{
		{Action: ActionManufactured},
		{Action: ActionShipped},
		{Action: ActionDelivered},
	}))
	assert.True(t, AlreadyDispensed([]LedgerEntry{
		{Action: ActionManufactured},
		{Action: ActionDispensed},
	}))
}
