package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"pharmatrack/m/domain"
	"pharmatrack/m/internal/messaging"
)

type ctxKey string

const (
	ctxUserID ctxKey = "userID"
	ctxRole   ctxKey = "role"
)

// Handler bundles dependencies for HTTP handlers. The DB client is injected
// here rather than held as a package-level singleton.
type Handler struct {
	db      *sqlx.DB
	secret  string
	events  messaging.Publisher
	baseURL string
}

// New constructs a Handler.
func New(db *sqlx.DB, secret string, events messaging.Publisher, baseURL string) *Handler {
	return &Handler{db: db, secret: secret, events: events, baseURL: baseURL}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/reset-password", h.resetPassword)
		})
	})

	// Public tracking endpoints: no auth, these are what the QR codes open.
	r.Route("/track", func(r chi.Router) {
		r.Get("/{id}", h.trackDrug)
		r.Get("/{id}/qr", h.trackQR)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/medicines", func(r chi.Router) {
			r.Get("/", h.listMedicines)
			r.Post("/", h.addMedicine)
			r.Get("/stats", h.inventoryStats)
			r.Post("/{id}/adjust-stock", h.adjustStock)
			r.Get("/{id}/adjustments", h.listAdjustments)
		})

		pr.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Post("/", h.createOrder)
			r.Put("/{id}/status", h.updateOrderStatus)
		})

		pr.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.listSuppliers)
			r.Post("/", h.addSupplier)
			r.Put("/{id}/status", h.updateSupplierStatus)
		})

		pr.Route("/provenance", func(r chi.Router) {
			r.Post("/drugs", h.registerDrug)
			r.Post("/drugs/{id}/dispense", h.dispenseDrug)
			r.Post("/shipments", h.createShipment)
			r.Post("/shipments/{id}/transfer", h.transferCustody)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helpers

func nullIfEmpty(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// joinCategories and splitCategories map the supplier category set onto a
// single text column.
func joinCategories(categories []string) string {
	cleaned := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return strings.Join(cleaned, ",")
}

func splitCategories(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps rule violations to 400 and everything else to the
// provided fallback status.
func respondDomainError(w http.ResponseWriter, err error, fallbackStatus int, fallbackMsg string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusBadRequest, verr.Msg)
		return
	}
	respondError(w, fallbackStatus, fallbackMsg)
}
