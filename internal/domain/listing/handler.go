package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cargoline/cargoline-api/internal/domain/credit"
	"github.com/cargoline/cargoline-api/internal/middleware"
	"github.com/cargoline/cargoline-api/internal/pkg/response"
	"github.com/cargoline/cargoline-api/internal/pkg/validator"
)

// Handler handles listing HTTP requests
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Publish creates a listing and charges the publish fee.
// POST /api/v1/listings/{type}
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	postType, err := ParsePostType(chi.URLParam(r, "type"))
	if err != nil {
		response.BadRequest(w, "unknown post type")
		return
	}

	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	l, entry, err := h.svc.Publish(r.Context(), userID, postType, PublishInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, PublishResponse{Listing: l, Charge: entry})
}

// List returns active listings, promoted ones first.
// GET /api/v1/listings/{type}
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	postType, err := ParsePostType(chi.URLParam(r, "type"))
	if err != nil {
		response.BadRequest(w, "unknown post type")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	listings, err := h.svc.List(r.Context(), postType, Pagination{Limit: limit, Offset: offset})
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"items": listings,
		"total": len(listings),
	})
}

// ListMine returns the authenticated user's listings of a type.
// GET /api/v1/listings/{type}/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	postType, err := ParsePostType(chi.URLParam(r, "type"))
	if err != nil {
		response.BadRequest(w, "unknown post type")
		return
	}

	listings, err := h.svc.ListOwn(r.Context(), postType, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"items": listings,
		"total": len(listings),
	})
}

// Get returns one listing and counts the view.
// GET /api/v1/listings/{type}/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	postType, err := ParsePostType(chi.URLParam(r, "type"))
	if err != nil {
		response.BadRequest(w, "unknown post type")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	l, err := h.svc.Get(r.Context(), postType, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, l)
}

// UpdateStatus toggles a listing's status (soft delete included).
// PATCH /api/v1/listings/{type}/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	postType, err := ParsePostType(chi.URLParam(r, "type"))
	if err != nil {
		response.BadRequest(w, "unknown post type")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	status, err := ParseStatus(req.Status)
	if err != nil {
		response.BadRequest(w, "invalid status")
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), userID, postType, id, status); err != nil {
		h.writeError(w, err)
		return
	}

	response.NoContent(w)
}

// Refresh bumps a listing back to the top of the freshness ordering.
// POST /api/v1/listings/{type}/{id}/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	postType, err := ParsePostType(chi.URLParam(r, "type"))
	if err != nil {
		response.BadRequest(w, "unknown post type")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid listing id")
		return
	}

	if err := h.svc.Refresh(r.Context(), userID, postType, id); err != nil {
		h.writeError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var insufficient *credit.InsufficientCreditsError

	switch {
	case errors.As(err, &insufficient):
		response.ConflictWithDetails(w, "INSUFFICIENT_CREDITS", "not enough credits", map[string]string{
			"required": strconv.FormatInt(insufficient.Required, 10),
			"current":  strconv.FormatInt(insufficient.Current, 10),
			"shortage": strconv.FormatInt(insufficient.Shortage, 10),
		})
	case errors.Is(err, ErrUnknownPostType):
		response.BadRequest(w, "unknown post type")
	case errors.Is(err, ErrPricingUnavailable):
		response.ServiceUnavailable(w, "publishing is temporarily unavailable")
	case errors.Is(err, ErrListingNotFound):
		response.NotFound(w, "listing not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "you do not own this listing")
	default:
		response.InternalError(w)
	}
}

// Routes wires listing endpoints. Reads are public, mutations require auth.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{type}", h.List)
	r.Get("/{type}/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/{type}", h.Publish)
		r.Get("/{type}/mine", h.ListMine)
		r.Patch("/{type}/{id}/status", h.UpdateStatus)
		r.Post("/{type}/{id}/refresh", h.Refresh)
	})

	return r
}
