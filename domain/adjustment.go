package domain

// AdjustmentType is the direction of a stock adjustment.
type AdjustmentType string

const (
	AdjustmentIncrease AdjustmentType = "increase"
	AdjustmentDecrease AdjustmentType = "decrease"
)

// ValidAdjustmentType reports whether t is a known adjustment direction.
func ValidAdjustmentType(t AdjustmentType) bool {
	return t == AdjustmentIncrease || t == AdjustmentDecrease
}

// StockAdjustment is an immutable audit row written once per adjustment.
// BatchNumber is a snapshot of the medicine's batch at adjustment time, not
// a live reference.
type StockAdjustment struct {
	ID             int64          `db:"id" json:"id"`
	MedicineID     int64          `db:"medicine_id" json:"medicine_id"`
	Type           AdjustmentType `db:"type" json:"type"`
	Quantity       int64          `db:"quantity" json:"quantity"`
	Reason         string         `db:"reason" json:"reason"`
	BatchNumber    string         `db:"batch_number" json:"batch_number"`
	AdjustedBy     int64          `db:"adjusted_by" json:"adjusted_by"`
	AdjustmentDate int64          `db:"adjustment_date" json:"adjustment_date"`
}

// ApplyAdjustment computes the new quantity after an adjustment, enforcing
// the non-negative stock invariant.
func ApplyAdjustment(current int64, typ AdjustmentType, quantity int64) (int64, error) {
	if quantity <= 0 {
		return current, NewValidationError("adjustment quantity must be greater than zero")
	}
	switch typ {
	case AdjustmentIncrease:
		return current + quantity, nil
	case AdjustmentDecrease:
		next := current - quantity
		if next < 0 {
			return current, ErrStockBelowZero
		}
		return next, nil
	default:
		return current, NewValidationError("adjustment type must be increase or decrease")
	}
}
