package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cargoline/cargoline-api/internal/middleware"
	"github.com/cargoline/cargoline-api/internal/pkg/response"
	"github.com/cargoline/cargoline-api/internal/pkg/validator"
)

// Handler handles account HTTP requests
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register creates an account.
// POST /api/v1/account/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	u, token, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, AuthResponse{User: u, AccessToken: token})
}

// Login authenticates an account.
// POST /api/v1/account/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	u, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, AuthResponse{User: u, AccessToken: token})
}

// Me returns the caller's account.
// GET /api/v1/account/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	u, err := h.svc.Me(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, u)
}

// Balance returns the caller's credit snapshot.
// GET /api/v1/account/balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	bal, err := h.svc.Balance(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, bal)
}

// Transactions returns the caller's ledger history.
// GET /api/v1/account/transactions
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.svc.Transactions(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"items": entries,
		"total": len(entries),
	})
}

// Recharge tops up the caller's balance.
// POST /api/v1/account/recharge
func (h *Handler) Recharge(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req RechargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	entry, err := h.svc.Recharge(r.Context(), userID, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, RechargeResponse{Entry: entry})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		response.Error(w, http.StatusConflict, "EMAIL_TAKEN", "email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		response.Unauthorized(w, "invalid email or password")
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(w, "user not found")
	case errors.Is(err, ErrInvalidRechargeAmount):
		response.BadRequest(w, "no recharge rate for this amount")
	case errors.Is(err, ErrRechargeUnavailable):
		response.ServiceUnavailable(w, "recharge is temporarily unavailable")
	default:
		response.InternalError(w)
	}
}

// Routes wires account endpoints.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/me", h.Me)
		r.Get("/balance", h.Balance)
		r.Get("/transactions", h.Transactions)
		r.Post("/recharge", h.Recharge)
	})

	return r
}
