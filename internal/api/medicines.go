package api

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pharmatrack/m/domain"
	"pharmatrack/m/internal/messaging"
)

type medicineRequest struct {
	Name         string  `json:"name"`
	GenericName  string  `json:"generic_name"`
	BatchNumber  string  `json:"batch_number"`
	Quantity     int64   `json:"quantity"`
	ExpiryDate   int64   `json:"expiry_date"`
	Manufacturer string  `json:"manufacturer"`
	Location     string  `json:"location"`
	MinimumStock int64   `json:"minimum_stock"`
	UnitPrice    float64 `json:"unit_price"`
	Category     string  `json:"category"`
	DosageForm   string  `json:"dosage_form"`
	Strength     string  `json:"strength"`
	Description  string  `json:"description,omitempty"`
}

func (h *Handler) addMedicine(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.GenericName == "" || req.BatchNumber == "" {
		respondError(w, http.StatusBadRequest, "name, generic_name and batch_number are required")
		return
	}
	if req.Quantity < 0 || req.MinimumStock < 0 || req.UnitPrice < 0 {
		respondError(w, http.StatusBadRequest, "quantity, minimum_stock and unit_price must not be negative")
		return
	}
	if req.ExpiryDate <= 0 {
		respondError(w, http.StatusBadRequest, "expiry_date is required")
		return
	}
	if !domain.ValidCategory(req.Category) {
		respondError(w, http.StatusBadRequest, "unknown category")
		return
	}
	if !domain.ValidDosageForm(req.DosageForm) {
		respondError(w, http.StatusBadRequest, "unknown dosage_form")
		return
	}

	userID := userIDFromContext(r)
	var id int64
	err := h.db.QueryRowx(`INSERT INTO medicines
		(name, generic_name, batch_number, quantity, expiry_date, manufacturer, location, minimum_stock, unit_price, category, dosage_form, strength, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`,
		req.Name, req.GenericName, req.BatchNumber, req.Quantity, req.ExpiryDate,
		req.Manufacturer, req.Location, req.MinimumStock, req.UnitPrice,
		req.Category, req.DosageForm, req.Strength, nullIfEmpty(req.Description), userID).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") || strings.Contains(err.Error(), "duplicate key") {
			respondError(w, http.StatusConflict, "medicine with this name and batch already exists")
		} else {
			respondError(w, http.StatusInternalServerError, "unable to add medicine")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id, "name": req.Name})
}

// listMedicines searches by medicine name only; the low-stock and
// expiring-soon filters are applied in application code after the rows load,
// never pushed into the SQL query.
func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	filter := domain.MedicineFilter(strings.TrimSpace(r.URL.Query().Get("filter")))
	if filter == "" {
		filter = domain.FilterAll
	}
	if !domain.ValidFilter(filter) {
		respondError(w, http.StatusBadRequest, "filter must be all, low_stock or expiring_soon")
		return
	}

	search := strings.TrimSpace(r.URL.Query().Get("search"))
	var medicines []domain.Medicine
	var err error
	if search == "" {
		err = h.db.Select(&medicines, `SELECT * FROM medicines ORDER BY name`)
	} else {
		err = h.db.Select(&medicines, `SELECT * FROM medicines WHERE name ILIKE $1 ORDER BY name`, "%"+search+"%")
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list medicines")
		return
	}

	medicines = domain.ApplyFilter(medicines, filter, time.Now().UnixMilli())
	if medicines == nil {
		medicines = []domain.Medicine{}
	}
	respondJSON(w, http.StatusOK, medicines)
}

// inventoryStats recomputes the aggregates over the full medicine set on
// every call.
func (h *Handler) inventoryStats(w http.ResponseWriter, r *http.Request) {
	var medicines []domain.Medicine
	if err := h.db.Select(&medicines, `SELECT * FROM medicines`); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load medicines")
		return
	}
	respondJSON(w, http.StatusOK, domain.ComputeInventoryStats(medicines, time.Now().UnixMilli()))
}

type adjustStockRequest struct {
	Type     domain.AdjustmentType `json:"type"`
	Quantity int64                 `json:"quantity"`
	Reason   string                `json:"reason"`
}

// adjustStock mutates a medicine's quantity and writes the audit row in one
// transaction. The medicine row is locked for the read-modify-write so
// concurrent decreases cannot jointly overdraw stock.
func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	medicineID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var req adjustStockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !domain.ValidAdjustmentType(req.Type) {
		respondError(w, http.StatusBadRequest, "type must be increase or decrease")
		return
	}
	if req.Reason == "" {
		respondError(w, http.StatusBadRequest, "reason is required")
		return
	}

	userID := userIDFromContext(r)
	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback()

	var current struct {
		Quantity    int64  `db:"quantity"`
		BatchNumber string `db:"batch_number"`
	}
	err = tx.Get(&current, `SELECT quantity, batch_number FROM medicines WHERE id = $1 FOR UPDATE`, medicineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "medicine not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load medicine")
		return
	}

	newQuantity, err := domain.ApplyAdjustment(current.Quantity, req.Type, req.Quantity)
	if err != nil {
		respondDomainError(w, err, http.StatusInternalServerError, "unable to adjust stock")
		return
	}

	if _, err := tx.Exec(`UPDATE medicines SET quantity = $1 WHERE id = $2`, newQuantity, medicineID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update stock")
		return
	}

	now := time.Now().UnixMilli()
	_, err = tx.Exec(`INSERT INTO stock_adjustments (medicine_id, type, quantity, reason, batch_number, adjusted_by, adjustment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		medicineID, req.Type, req.Quantity, req.Reason, current.BatchNumber, userID, now)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to record adjustment")
		return
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to commit adjustment")
		return
	}

	event := &messaging.StockAdjustedEvent{
		MedicineID:  medicineID,
		Adjustment:  string(req.Type),
		Quantity:    req.Quantity,
		NewQuantity: newQuantity,
		AdjustedBy:  userID,
		Timestamp:   now,
	}
	if err := h.events.PublishStockAdjusted(context.Background(), event); err != nil {
		log.Printf("failed to publish stock adjustment event: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "stock adjusted",
		"new_quantity": newQuantity,
	})
}

func (h *Handler) listAdjustments(w http.ResponseWriter, r *http.Request) {
	medicineID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var exists bool
	if err := h.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM medicines WHERE id = $1)`, medicineID); err != nil || !exists {
		respondError(w, http.StatusNotFound, "medicine not found")
		return
	}
	var adjustments []domain.StockAdjustment
	err = h.db.Select(&adjustments, `SELECT id, medicine_id, type, quantity, reason, batch_number, adjusted_by, adjustment_date
		FROM stock_adjustments WHERE medicine_id = $1 ORDER BY adjustment_date DESC`, medicineID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list adjustments")
		return
	}
	if adjustments == nil {
		adjustments = []domain.StockAdjustment{}
	}
	respondJSON(w, http.StatusOK, adjustments)
}
