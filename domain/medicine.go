package domain

// Categories is the fixed set of medicine categories.
var Categories = []string{
	"Antibiotics",
	"Analgesics",
	"Antivirals",
	"Antidiabetics",
	"Cardiovascular",
	"Respiratory",
	"Gastrointestinal",
	"Supplements",
	"Other",
}

// DosageForms is the fixed set of dosage forms.
var DosageForms = []string{
	"Tablet",
	"Capsule",
	"Syrup",
	"Injection",
	"Cream",
	"Ointment",
	"Drops",
	"Inhaler",
	"Other",
}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// ValidDosageForm reports whether d is one of the fixed dosage forms.
func ValidDosageForm(d string) bool {
	for _, form := range DosageForms {
		if d == form {
			return true
		}
	}
	return false
}

type Medicine struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	GenericName  string  `db:"generic_name" json:"generic_name"`
	BatchNumber  string  `db:"batch_number" json:"batch_number"`
	Quantity     int64   `db:"quantity" json:"quantity"`
	ExpiryDate   int64   `db:"expiry_date" json:"expiry_date"`
	Manufacturer string  `db:"manufacturer" json:"manufacturer"`
	Location     string  `db:"location" json:"location"`
	MinimumStock int64   `db:"minimum_stock" json:"minimum_stock"`
	UnitPrice    float64 `db:"unit_price" json:"unit_price"`
	Category     string  `db:"category" json:"category"`
	DosageForm   string  `db:"dosage_form" json:"dosage_form"`
	Strength     string  `db:"strength" json:"strength"`
	Description  *string `db:"description" json:"description,omitempty"`
	CreatedBy    *int64  `db:"created_by" json:"created_by,omitempty"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
}

// ExpiryHorizonMs is the fixed expiring-soon window: 30 days in milliseconds.
const ExpiryHorizonMs int64 = 30 * 24 * 60 * 60 * 1000

// LowStock reports whether the medicine is at or below its minimum stock.
// A medicine exactly at minimum counts as low.
func (m Medicine) LowStock() bool {
	return m.Quantity <= m.MinimumStock
}

// ExpiringSoon reports whether the medicine expires within 30 days of nowMs.
func (m Medicine) ExpiringSoon(nowMs int64) bool {
	return m.ExpiryDate <= nowMs+ExpiryHorizonMs
}

// MedicineFilter narrows a medicine listing by derived classification.
type MedicineFilter string

const (
	FilterAll          MedicineFilter = "all"
	FilterLowStock     MedicineFilter = "low_stock"
	FilterExpiringSoon MedicineFilter = "expiring_soon"
)

// ValidFilter reports whether f is a known listing filter.
func ValidFilter(f MedicineFilter) bool {
	switch f {
	case FilterAll, FilterLowStock, FilterExpiringSoon:
		return true
	}
	return false
}

// ApplyFilter keeps the medicines matching the filter. Classification is
// derived at read time; nothing is persisted.
func ApplyFilter(medicines []Medicine, filter MedicineFilter, nowMs int64) []Medicine {
	switch filter {
	case FilterLowStock:
		out := make([]Medicine, 0, len(medicines))
		for _, m := range medicines {
			if m.LowStock() {
				out = append(out, m)
			}
		}
		return out
	case FilterExpiringSoon:
		out := make([]Medicine, 0, len(medicines))
		for _, m := range medicines {
			if m.ExpiringSoon(nowMs) {
				out = append(out, m)
			}
		}
		return out
	default:
		return medicines
	}
}

// InventoryStats aggregates the medicine set. Recomputed on every call.
type InventoryStats struct {
	TotalValue        float64 `json:"total_value"`
	TotalItems        int     `json:"total_items"`
	LowStockCount     int     `json:"low_stock_count"`
	ExpiringSoonCount int     `json:"expiring_soon_count"`
}

// ComputeInventoryStats derives the dashboard aggregates from the full
// medicine set.
func ComputeInventoryStats(medicines []Medicine, nowMs int64) InventoryStats {
	stats := InventoryStats{TotalItems: len(medicines)}
	for _, m := range medicines {
		stats.TotalValue += float64(m.Quantity) * m.UnitPrice
		if m.LowStock() {
			stats.LowStockCount++
		}
		if m.ExpiringSoon(nowMs) {
			stats.ExpiringSoonCount++
		}
	}
	return stats
}
