package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"pharmatrack/m/domain"
	"pharmatrack/m/internal/messaging"
)

type registerDrugRequest struct {
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	BatchNumber string `json:"batch_number"`
	ExpiryDate  int64  `json:"expiry_date"`
	Location    string `json:"location,omitempty"`
}

// registerDrug creates a tracked batch and its first ledger entry.
func (h *Handler) registerDrug(w http.ResponseWriter, r *http.Request) {
	var req registerDrugRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.SKU == "" || req.BatchNumber == "" {
		respondError(w, http.StatusBadRequest, "name, sku and batch_number are required")
		return
	}
	if req.ExpiryDate <= 0 {
		respondError(w, http.StatusBadRequest, "expiry_date is required")
		return
	}
	if req.Location == "" {
		req.Location = "factory"
	}

	userID := userIDFromContext(r)
	drugID := uuid.New()

	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO drugs (id, name, sku, batch_number, expiry_date, manufacturer_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		drugID, req.Name, req.SKU, req.BatchNumber, req.ExpiryDate, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to register drug")
		return
	}

	_, err = tx.Exec(`INSERT INTO ledger_entries (drug_id, user_id, action, details, location)
		VALUES ($1, $2, $3, $4, $5)`,
		drugID, userID, domain.ActionManufactured,
		fmt.Sprintf("Initial batch registration for %s", req.Name), req.Location)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to record ledger entry")
		return
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to finalize registration")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":        drugID,
		"track_url": h.baseURL + "/track/" + drugID.String(),
	})
}

type createShipmentRequest struct {
	DrugID      string `json:"drug_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

func (h *Handler) createShipment(w http.ResponseWriter, r *http.Request) {
	var req createShipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	drugID, err := uuid.Parse(req.DrugID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid drug_id")
		return
	}
	if strings.TrimSpace(req.Destination) == "" {
		respondError(w, http.StatusBadRequest, "destination is required")
		return
	}

	var exists bool
	if err := h.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM drugs WHERE id = $1)`, drugID); err != nil || !exists {
		respondError(w, http.StatusNotFound, "drug not found")
		return
	}

	userID := userIDFromContext(r)
	shipmentID := uuid.New()

	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO shipments (id, drug_id, origin, destination, status, current_holder_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		shipmentID, drugID, req.Origin, req.Destination, domain.ShipmentCreated, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create shipment")
		return
	}

	_, err = tx.Exec(`INSERT INTO ledger_entries (drug_id, shipment_id, user_id, action, details, location)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		drugID, shipmentID, userID, domain.ActionShipped,
		fmt.Sprintf("Shipment created for %s", req.Destination), req.Origin)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to record ledger entry")
		return
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to finalize shipment")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"id": shipmentID, "status": domain.ShipmentCreated})
}

type transferCustodyRequest struct {
	Details  string `json:"details,omitempty"`
	Location string `json:"location,omitempty"`
}

// transferCustody hands the shipment to the caller and advances its status
// one step forward. The final handover writes a delivered ledger entry.
func (h *Handler) transferCustody(w http.ResponseWriter, r *http.Request) {
	shipmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid shipment id")
		return
	}
	var req transferCustodyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Details == "" {
		req.Details = "Verified physical receipt of batch"
	}

	userID := userIDFromContext(r)
	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback()

	var shipment domain.Shipment
	err = tx.Get(&shipment, `SELECT * FROM shipments WHERE id = $1 FOR UPDATE`, shipmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "shipment not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load shipment")
		return
	}

	nextStatus, err := shipment.Status.Advance()
	if err != nil {
		respondDomainError(w, err, http.StatusInternalServerError, "unable to transfer custody")
		return
	}

	_, err = tx.Exec(`UPDATE shipments SET status = $1, current_holder_id = $2, updated_at = NOW() WHERE id = $3`,
		nextStatus, userID, shipmentID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update shipment")
		return
	}

	action := domain.ActionHandover
	if nextStatus == domain.ShipmentDelivered {
		action = domain.ActionDelivered
	}
	_, err = tx.Exec(`INSERT INTO ledger_entries (drug_id, shipment_id, user_id, action, details, location)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		shipment.DrugID, shipmentID, userID, action, req.Details, req.Location)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to record ledger entry")
		return
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to finalize transfer")
		return
	}

	event := &messaging.CustodyEvent{
		ShipmentID: shipmentID.String(),
		DrugID:     shipment.DrugID.String(),
		HolderID:   userID,
		Status:     string(nextStatus),
		Timestamp:  time.Now().UnixMilli(),
	}
	if err := h.events.PublishCustodyTransfer(context.Background(), event); err != nil {
		log.Printf("failed to publish custody event: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]any{"status": nextStatus})
}

type dispenseRequest struct {
	PatientRef string `json:"patient_ref,omitempty"`
}

// dispenseDrug writes the terminal ledger entry. A drug can be dispensed
// exactly once.
func (h *Handler) dispenseDrug(w http.ResponseWriter, r *http.Request) {
	drugID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid drug id")
		return
	}
	var req dispenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PatientRef == "" {
		req.PatientRef = "Anonymous"
	}

	userID := userIDFromContext(r)
	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback()

	// Lock the drug row so concurrent dispense attempts serialize; without
	// it two transactions could both pass the ledger check below.
	var lockedID uuid.UUID
	err = tx.Get(&lockedID, `SELECT id FROM drugs WHERE id = $1 FOR UPDATE`, drugID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "drug not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load drug")
		return
	}

	var entries []domain.LedgerEntry
	if err := tx.Select(&entries, `SELECT * FROM ledger_entries WHERE drug_id = $1`, drugID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to check ledger")
		return
	}
	if domain.AlreadyDispensed(entries) {
		respondError(w, http.StatusBadRequest, "drug already dispensed")
		return
	}

	_, err = tx.Exec(`INSERT INTO ledger_entries (drug_id, user_id, action, details, location)
		VALUES ($1, $2, $3, $4, $5)`,
		drugID, userID, domain.ActionDispensed,
		fmt.Sprintf("Dispensed to patient ref: %s", req.PatientRef), "pharmacy")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to record dispense")
		return
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to finalize dispense")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "dispensed"})
}

type trackResponse struct {
	Drug     domain.Drug          `json:"drug"`
	Timeline []domain.LedgerEntry `json:"timeline"`
}

// trackDrug is the public page behind the QR code: the drug and its ledger
// timeline in chronological order.
func (h *Handler) trackDrug(w http.ResponseWriter, r *http.Request) {
	drugID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid drug id")
		return
	}

	var drug domain.Drug
	err = h.db.Get(&drug, `SELECT * FROM drugs WHERE id = $1`, drugID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "drug not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load drug")
		return
	}

	var timeline []domain.LedgerEntry
	err = h.db.Select(&timeline, `SELECT * FROM ledger_entries WHERE drug_id = $1 ORDER BY created_at ASC, id ASC`, drugID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load timeline")
		return
	}
	if timeline == nil {
		timeline = []domain.LedgerEntry{}
	}

	respondJSON(w, http.StatusOK, trackResponse{Drug: drug, Timeline: timeline})
}

// trackQR serves a QR code PNG that encodes the public tracking URL. The
// code carries the URL only; it is not a cryptographic proof of anything.
func (h *Handler) trackQR(w http.ResponseWriter, r *http.Request) {
	drugID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid drug id")
		return
	}

	var exists bool
	if err := h.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM drugs WHERE id = $1)`, drugID); err != nil || !exists {
		respondError(w, http.StatusNotFound, "drug not found")
		return
	}

	png, err := qrcode.Encode(h.baseURL+"/track/"+drugID.String(), qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
