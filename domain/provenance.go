package domain

import "github.com/google/uuid"

// LedgerAction is a drug lifecycle event recorded on the provenance ledger.
// Ledger rows are plain append-only database rows; there is no cryptographic
// structure behind them.
type LedgerAction string

const (
	ActionManufactured LedgerAction = "manufactured"
	ActionShipped      LedgerAction = "shipped"
	ActionHandover     LedgerAction = "received_handover"
	ActionDelivered    LedgerAction = "delivered"
	ActionDispensed    LedgerAction = "dispensed"
)

// ShipmentStatus is the custody state of a shipment.
type ShipmentStatus string

const (
	ShipmentCreated   ShipmentStatus = "created"
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
)

// Advance returns the next custody state. Movement is strictly forward:
// created, in_transit, delivered.
func (s ShipmentStatus) Advance() (ShipmentStatus, error) {
	switch s {
	case ShipmentCreated:
		return ShipmentInTransit, nil
	case ShipmentInTransit:
		return ShipmentDelivered, nil
	case ShipmentDelivered:
		return s, NewValidationError("shipment already delivered")
	default:
		return s, NewValidationError("unknown shipment status")
	}
}

// Drug is a registered batch tracked through the provenance ledger. IDs are
// UUIDs because they appear in public tracking URLs.
type Drug struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	SKU            string    `db:"sku" json:"sku"`
	BatchNumber    string    `db:"batch_number" json:"batch_number"`
	ExpiryDate     int64     `db:"expiry_date" json:"expiry_date"`
	ManufacturerID int64     `db:"manufacturer_id" json:"manufacturer_id"`
	CreatedAt      string    `db:"created_at" json:"created_at"`
}

type Shipment struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	DrugID          uuid.UUID      `db:"drug_id" json:"drug_id"`
	Origin          string         `db:"origin" json:"origin"`
	Destination     string         `db:"destination" json:"destination"`
	Status          ShipmentStatus `db:"status" json:"status"`
	CurrentHolderID *int64         `db:"current_holder_id" json:"current_holder_id,omitempty"`
	CreatedAt       string         `db:"created_at" json:"created_at"`
	UpdatedAt       string         `db:"updated_at" json:"updated_at"`
}

type LedgerEntry struct {
	ID         int64        `db:"id" json:"id"`
	DrugID     uuid.UUID    `db:"drug_id" json:"drug_id"`
	ShipmentID *uuid.UUID   `db:"shipment_id" json:"shipment_id,omitempty"`
	UserID     int64        `db:"user_id" json:"user_id"`
	Action     LedgerAction `db:"action" json:"action"`
	Details    string       `db:"details" json:"details"`
	Location   string       `db:"location" json:"location"`
	CreatedAt  string       `db:"created_at" json:"created_at"`
}

// AlreadyDispensed reports whether the ledger holds a dispense event. A drug
// can be dispensed exactly once.
func AlreadyDispensed(entries []LedgerEntry) bool {
	for _, e := range entries {
		if e.Action == ActionDispensed {
			return true
		}
	}
	return false
}
