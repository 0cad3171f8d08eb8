package domain

// SupplierStatus is the active/inactive flag on a supplier. It is freely
// toggled; there is no workflow and no history.
type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "active"
	SupplierInactive SupplierStatus = "inactive"
)

// ValidSupplierStatus reports whether s is a known supplier status.
func ValidSupplierStatus(s SupplierStatus) bool {
	return s == SupplierActive || s == SupplierInactive
}

type Supplier struct {
	ID            int64          `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	ContactPerson string         `db:"contact_person" json:"contact_person"`
	Email         string         `db:"email" json:"email"`
	Phone         string         `db:"phone" json:"phone"`
	Address       string         `db:"address" json:"address"`
	Categories    []string       `db:"-" json:"categories"`
	Status        SupplierStatus `db:"status" json:"status"`
	CreatedBy     *int64         `db:"created_by" json:"created_by,omitempty"`
	CreatedAt     string         `db:"created_at" json:"created_at"`
}
