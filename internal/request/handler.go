// AngelaMos | 2026
// handler.go

package request

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/assetdesk/internal/core"
	"github.com/carterperez-dev/assetdesk/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Any authenticated user can create and read requests (the service scopes
// reads to the caller); only admins can process them.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/requests", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{requestID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Put("/{requestID}/status", h.UpdateStatus)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListRequestsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Status:   r.URL.Query().Get("status"),
	}

	var err error
	if params.From, err = parseTimeQuery(r, "from"); err != nil {
		core.BadRequest(w, "invalid 'from' date")
		return
	}
	if params.To, err = parseTimeQuery(r, "to"); err != nil {
		core.BadRequest(w, "invalid 'to' date")
		return
	}
	params.Normalize()

	details, total, err := h.service.List(r.Context(), callerFrom(r), params)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			core.JSONError(w, core.UnauthorizedError("authentication required"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToRequestResponseList(details),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	detail, err := h.service.Create(r.Context(), callerFrom(r), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAssetNotAvailable):
			core.Conflict(w, "asset is not available")
		case errors.Is(err, ErrDuplicatePending):
			core.Conflict(w, "pending request for this asset already exists")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "asset")
		case errors.Is(err, core.ErrUnauthorized):
			core.JSONError(w, core.UnauthorizedError("authentication required"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToRequestResponse(detail))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	detail, err := h.service.Get(r.Context(), callerFrom(r), requestID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "request")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "you do not have access to this request")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToRequestResponse(detail))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	var req UpdateRequestStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	detail, err := h.service.Process(
		r.Context(),
		callerFrom(r),
		requestID,
		req.Status,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyProcessed):
			core.Conflict(w, "request has already been processed")
		case errors.Is(err, ErrAssetAlreadyAssigned):
			core.Conflict(w, "asset is already assigned to another user")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "request")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "invalid target status")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToRequestResponse(detail))
}

func callerFrom(r *http.Request) Identity {
	return Identity{
		ID:   middleware.GetUserID(r.Context()),
		Role: middleware.GetUserRole(r.Context()),
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

// parseTimeQuery accepts RFC 3339 timestamps or bare dates.
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}

	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
