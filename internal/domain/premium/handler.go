package premium

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cargoline/cargoline-api/internal/domain/credit"
	"github.com/cargoline/cargoline-api/internal/domain/listing"
	"github.com/cargoline/cargoline-api/internal/middleware"
	"github.com/cargoline/cargoline-api/internal/pkg/response"
	"github.com/cargoline/cargoline-api/internal/pkg/validator"
)

// Handler handles premium HTTP requests
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Activate purchases a premium tier for one of the caller's listings.
// POST /api/v1/premium/activate
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	postType, err := listing.ParsePostType(req.PostType)
	if err != nil {
		response.BadRequest(w, "unknown post type")
		return
	}

	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		response.BadRequest(w, "invalid post id")
		return
	}

	premiumType, err := ParseType(req.PremiumType)
	if err != nil {
		response.BadRequest(w, "invalid premium type")
		return
	}

	record, entry, err := h.svc.Activate(r.Context(), userID, ActivateInput{
		PostType:      postType,
		PostID:        postID,
		PremiumType:   premiumType,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, ActivateResponse{Record: record, Charge: entry})
}

// Status returns premium records for a post, activity recomputed.
// GET /api/v1/premium/{type}/{id}
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	postType, err := listing.ParsePostType(chi.URLParam(r, "type"))
	if err != nil {
		response.BadRequest(w, "unknown post type")
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid post id")
		return
	}

	records, err := h.svc.Status(r.Context(), postType, postID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"items": records,
		"total": len(records),
	})
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
	case errors.Is(err, ErrInvalidType):
		response.BadRequest(w, "invalid premium type")
	case errors.Is(err, ErrInvalidDuration):
		response.BadRequest(w, "top placement sells in 24, 72 or 168 hour windows")
	case errors.Is(err, ErrPricingUnavailable):
		response.ServiceUnavailable(w, "premium purchases are temporarily unavailable")
	case errors.Is(err, listing.ErrUnknownPostType):
		response.BadRequest(w, "unknown post type")
	case errors.Is(err, listing.ErrListingNotFound):
		response.NotFound(w, "listing not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "you do not own this listing")
	default:
		response.InternalError(w)
	}
}

// Routes wires premium endpoints. Status is public, purchases require auth.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{type}/{id}", h.Status)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/activate", h.Activate)
	})

	return r
}
