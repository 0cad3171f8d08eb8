package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"pharmatrack/m/domain"
	"pharmatrack/m/internal/messaging"
)

type orderItemRequest struct {
	MedicineID  int64  `json:"medicine_id"`
	Quantity    int64  `json:"quantity"`
	BatchNumber string `json:"batch_number"`
}

type createOrderRequest struct {
	Items            []orderItemRequest `json:"items"`
	DeliveryLocation string             `json:"delivery_location"`
	Notes            string             `json:"notes,omitempty"`
}

// createOrder captures each line's unit price at creation time. No stock is
// reserved or decremented here; ordering and physical stock adjustment are
// decoupled operations.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "no items in order")
		return
	}
	if strings.TrimSpace(req.DeliveryLocation) == "" {
		respondError(w, http.StatusBadRequest, "delivery_location is required")
		return
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "item quantity must be greater than zero")
			return
		}
	}

	userID := userIDFromContext(r)
	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback()

	lines := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		var unitPrice float64
		err := tx.Get(&unitPrice, `SELECT unit_price FROM medicines WHERE id = $1`, item.MedicineID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				respondError(w, http.StatusNotFound, fmt.Sprintf("medicine %d not found", item.MedicineID))
				return
			}
			respondError(w, http.StatusInternalServerError, "unable to load medicine")
			return
		}
		lines = append(lines, domain.OrderItem{
			MedicineID:  item.MedicineID,
			Quantity:    item.Quantity,
			BatchNumber: item.BatchNumber,
			UnitPrice:   unitPrice,
			Subtotal:    unitPrice * float64(item.Quantity),
		})
	}
	totalAmount := domain.OrderTotal(lines)

	now := time.Now().UnixMilli()
	var orderID int64
	err = tx.QueryRowx(`INSERT INTO orders (status, requested_by, delivery_location, request_date, notes, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		domain.OrderPending, userID, req.DeliveryLocation, now, nullIfEmpty(req.Notes), totalAmount).Scan(&orderID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create order")
		return
	}

	for _, line := range lines {
		_, err = tx.Exec(`INSERT INTO order_items (order_id, medicine_id, quantity, batch_number, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			orderID, line.MedicineID, line.Quantity, line.BatchNumber, line.UnitPrice, line.Subtotal)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "unable to add order items")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to finalize order")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":           orderID,
		"status":       domain.OrderPending,
		"total_amount": totalAmount,
	})
}

type orderEntry struct {
	domain.Order
	Items []domain.OrderItem `json:"items"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(strings.TrimSpace(r.URL.Query().Get("status")))

	var orders []domain.Order
	var err error
	if status == "" {
		err = h.db.Select(&orders, `SELECT * FROM orders ORDER BY request_date DESC`)
	} else {
		if !domain.ValidOrderStatus(status) {
			respondError(w, http.StatusBadRequest, "unknown order status")
			return
		}
		err = h.db.Select(&orders, `SELECT * FROM orders WHERE status = $1 ORDER BY request_date DESC`, status)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list orders")
		return
	}
	if len(orders) == 0 {
		respondJSON(w, http.StatusOK, []orderEntry{})
		return
	}

	ids := make([]int64, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}

	itemsQuery, itemsArgs, err := sqlx.In(`SELECT id, order_id, medicine_id, quantity, batch_number, unit_price, subtotal
		FROM order_items WHERE order_id IN (?)`, ids)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to prepare order items query")
		return
	}
	itemsQuery = h.db.Rebind(itemsQuery)

	var rows []domain.OrderItem
	if err := h.db.Select(&rows, itemsQuery, itemsArgs...); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load order items")
		return
	}
	itemsByOrder := make(map[int64][]domain.OrderItem)
	for _, row := range rows {
		itemsByOrder[row.OrderID] = append(itemsByOrder[row.OrderID], row)
	}

	entries := make([]orderEntry, len(orders))
	for i, order := range orders {
		items := itemsByOrder[order.ID]
		if items == nil {
			items = []domain.OrderItem{}
		}
		entries[i] = orderEntry{Order: order, Items: items}
	}

	respondJSON(w, http.StatusOK, entries)
}

type updateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// updateOrderStatus enforces the lifecycle: pending fans out to approved or
// rejected, then approved, shipped, delivered move strictly forward. The
// approval stamp is written only when a pending order is decided; shipping
// and delivery do not touch it.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req updateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !domain.ValidOrderStatus(req.Status) || req.Status == domain.OrderPending {
		respondError(w, http.StatusBadRequest, "status must be approved, rejected, shipped or delivered")
		return
	}

	userID := userIDFromContext(r)
	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback()

	var current domain.OrderStatus
	err = tx.Get(&current, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load order")
		return
	}

	if !current.CanTransitionTo(req.Status) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("cannot transition order from %s to %s", current, req.Status))
		return
	}

	if current == domain.OrderPending {
		now := time.Now().UnixMilli()
		_, err = tx.Exec(`UPDATE orders SET status = $1, approved_by = $2, approval_date = $3 WHERE id = $4`,
			req.Status, userID, now, orderID)
	} else {
		_, err = tx.Exec(`UPDATE orders SET status = $1 WHERE id = $2`, req.Status, orderID)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update order")
		return
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to commit order update")
		return
	}

	event := &messaging.OrderStatusEvent{
		OrderID:   orderID,
		OldStatus: string(current),
		NewStatus: string(req.Status),
		ChangedBy: userID,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := h.events.PublishOrderStatus(context.Background(), event); err != nil {
		log.Printf("failed to publish order status event: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]any{"status": req.Status})
}
