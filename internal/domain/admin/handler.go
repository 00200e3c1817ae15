package admin

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cargoline/cargoline-api/internal/domain/credit"
	"github.com/cargoline/cargoline-api/internal/domain/sysconfig"
	"github.com/cargoline/cargoline-api/internal/middleware"
	"github.com/cargoline/cargoline-api/internal/pkg/response"
	"github.com/cargoline/cargoline-api/internal/pkg/validator"
)

// Handler exposes operator endpoints: manual balance adjustments, ledger
// search and configuration management. Routes must sit behind an admin guard.
type Handler struct {
	credits credit.Service
	config  *sysconfig.Service
}

func NewHandler(credits credit.Service, config *sysconfig.Service) *Handler {
	return &Handler{credits: credits, config: config}
}

// AdjustBalance applies a signed delta to a user's balance.
// POST /api/v1/admin/credits/adjust
func (h *Handler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	entry, err := h.credits.AdminAdjust(r.Context(), userID, req.Delta, req.Reason, nil)
	if err != nil {
		h.writeCreditError(w, err)
		return
	}

	log.Info().
		Str("admin_id", middleware.GetUserID(r.Context()).String()).
		Str("user_id", userID.String()).
		Int64("delta", req.Delta).
		Msg("admin balance adjustment")

	response.OK(w, entry)
}

// GetBalance returns any user's credit snapshot.
// GET /api/v1/admin/credits/{userID}
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	bal, err := h.credits.GetBalance(r.Context(), userID)
	if err != nil {
		h.writeCreditError(w, err)
		return
	}

	response.OK(w, bal)
}

// SearchLedger returns filtered ledger entries across all users.
// GET /api/v1/admin/credits
func (h *Handler) SearchLedger(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := credit.SearchFilters{}
	if v := q.Get("user_id"); v != "" {
		filters.UserID = &v
	}
	if v := q.Get("kind"); v != "" {
		filters.Kind = &v
	}
	if v := q.Get("reference_type"); v != "" {
		filters.ReferenceType = &v
	}
	if v := q.Get("reference_id"); v != "" {
		filters.ReferenceID = &v
	}
	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.BadRequest(w, "date_from must be RFC3339")
			return
		}
		filters.DateFrom = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.BadRequest(w, "date_to must be RFC3339")
			return
		}
		filters.DateTo = &t
	}
	filters.Limit, _ = strconv.Atoi(q.Get("limit"))
	filters.Offset, _ = strconv.Atoi(q.Get("offset"))

	entries, err := h.credits.SearchEntries(r.Context(), filters)
	if err != nil {
		h.writeCreditError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"items": entries,
		"total": len(entries),
	})
}

// ListConfig returns every configuration entry.
// GET /api/v1/admin/config
func (h *Handler) ListConfig(w http.ResponseWriter, r *http.Request) {
	entries, err := h.config.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"items": entries,
		"total": len(entries),
	})
}

// SetConfig writes one configuration key.
// PUT /api/v1/admin/config
func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	var req SetConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	dataType := sysconfig.DataType(req.DataType)
	if !valueMatchesType(req.Value, dataType) {
		response.BadRequest(w, "value does not match data_type")
		return
	}

	entry := &sysconfig.Entry{
		Key:      req.Key,
		Value:    req.Value,
		DataType: dataType,
	}
	if req.Description != "" {
		entry.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := h.config.Set(r.Context(), entry); err != nil {
		response.InternalError(w)
		return
	}

	log.Info().
		Str("admin_id", middleware.GetUserID(r.Context()).String()).
		Str("key", req.Key).
		Msg("config key updated")

	response.OK(w, entry)
}

// valueMatchesType rejects writes whose value cannot be coerced later. A
// mistyped price key would otherwise silently disable charging.
func valueMatchesType(value string, t sysconfig.DataType) bool {
	switch t {
	case sysconfig.TypeString:
		return true
	case sysconfig.TypeNumber:
		_, err := strconv.ParseInt(value, 10, 64)
		return err == nil
	case sysconfig.TypeBoolean:
		_, err := strconv.ParseBool(value)
		return err == nil
	case sysconfig.TypeJSON:
		return json.Valid([]byte(value))
	}
	return false
}

func (h *Handler) writeCreditError(w http.ResponseWriter, err error) {
	var insufficient *credit.InsufficientCreditsError

	switch {
	case errors.As(err, &insufficient):
		response.ConflictWithDetails(w, "INSUFFICIENT_CREDITS", "adjustment would overdraw the balance", map[string]string{
			"required": strconv.FormatInt(insufficient.Required, 10),
			"current":  strconv.FormatInt(insufficient.Current, 10),
			"shortage": strconv.FormatInt(insufficient.Shortage, 10),
		})
	case errors.Is(err, credit.ErrUserNotFound):
		response.NotFound(w, "user not found")
	case errors.Is(err, credit.ErrInvalidAmount):
		response.BadRequest(w, "delta must be non-zero")
	default:
		response.InternalError(w)
	}
}

// Routes wires admin endpoints. The caller must wrap them in auth and
// role guards.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/credits/adjust", h.AdjustBalance)
	r.Get("/credits/{userID}", h.GetBalance)
	r.Get("/credits", h.SearchLedger)

	r.Get("/config", h.ListConfig)
	r.Put("/config", h.SetConfig)

	return r
}
