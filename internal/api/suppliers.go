package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pharmatrack/m/domain"
)

type supplierRequest struct {
	Name          string   `json:"name"`
	ContactPerson string   `json:"contact_person"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	Categories    []string `json:"categories"`
}

// supplierRow mirrors the suppliers table, with the category set stored as a
// single comma-joined column.
type supplierRow struct {
	ID            int64                 `db:"id"`
	Name          string                `db:"name"`
	ContactPerson string                `db:"contact_person"`
	Email         string                `db:"email"`
	Phone         string                `db:"phone"`
	Address       string                `db:"address"`
	Categories    string                `db:"categories"`
	Status        domain.SupplierStatus `db:"status"`
	CreatedBy     *int64                `db:"created_by"`
	CreatedAt     string                `db:"created_at"`
}

func (row supplierRow) toDomain() domain.Supplier {
	return domain.Supplier{
		ID:            row.ID,
		Name:          row.Name,
		ContactPerson: row.ContactPerson,
		Email:         row.Email,
		Phone:         row.Phone,
		Address:       row.Address,
		Categories:    splitCategories(row.Categories),
		Status:        row.Status,
		CreatedBy:     row.CreatedBy,
		CreatedAt:     row.CreatedAt,
	}
}

// addSupplier creates a supplier. New suppliers always start active.
func (h *Handler) addSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	userID := userIDFromContext(r)
	var id int64
	err := h.db.QueryRowx(`INSERT INTO suppliers (name, contact_person, email, phone, address, categories, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		req.Name, req.ContactPerson, strings.ToLower(req.Email), req.Phone, req.Address,
		joinCategories(req.Categories), domain.SupplierActive, userID).Scan(&id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add supplier")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id, "name": req.Name, "status": domain.SupplierActive})
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	status := domain.SupplierStatus(strings.TrimSpace(r.URL.Query().Get("status")))

	var rows []supplierRow
	var err error
	if status == "" {
		err = h.db.Select(&rows, `SELECT * FROM suppliers ORDER BY name`)
	} else {
		if !domain.ValidSupplierStatus(status) {
			respondError(w, http.StatusBadRequest, "status must be active or inactive")
			return
		}
		err = h.db.Select(&rows, `SELECT * FROM suppliers WHERE status = $1 ORDER BY name`, status)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list suppliers")
		return
	}

	suppliers := make([]domain.Supplier, len(rows))
	for i, row := range rows {
		suppliers[i] = row.toDomain()
	}
	respondJSON(w, http.StatusOK, suppliers)
}

type updateSupplierStatusRequest struct {
	Status domain.SupplierStatus `json:"status"`
}

// updateSupplierStatus flips the active/inactive flag. No history is kept
// and nothing referencing the supplier is touched.
func (h *Handler) updateSupplierStatus(w http.ResponseWriter, r *http.Request) {
	supplierID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid supplier id")
		return
	}
	var req updateSupplierStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !domain.ValidSupplierStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "status must be active or inactive")
		return
	}

	result, err := h.db.Exec(`UPDATE suppliers SET status = $1 WHERE id = $2`, req.Status, supplierID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update supplier")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(w, http.StatusNotFound, "supplier not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": req.Status})
}
