// AngelaMos | 2026
// handler.go

package asset

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/assetdesk/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	maxUpload int64
}

func NewHandler(service *Service, maxUpload int64) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		maxUpload: maxUpload,
	}
}

// Reads require authentication; mutations require the admin role.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/assets", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{assetID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/", h.Create)
			r.Put("/{assetID}", h.Update)
			r.Put("/{assetID}/status", h.UpdateStatus)
			r.Post("/{assetID}/image", h.UploadImage)
			r.Delete("/{assetID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListAssetsParams{
		Page:       parseIntQuery(r, "page", 1),
		PageSize:   parseIntQuery(r, "page_size", 20),
		Search:     r.URL.Query().Get("search"),
		CategoryID: r.URL.Query().Get("category_id"),
		Status:     r.URL.Query().Get("status"),
	}
	params.Normalize()

	details, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToAssetResponseList(details),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")

	detail, err := h.service.Get(r.Context(), assetID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "asset")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAssetResponse(detail))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	detail, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			core.Conflict(w, "serial number already in use")
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "category")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToAssetResponse(detail))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")

	var req UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	detail, err := h.service.Update(r.Context(), assetID, req)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			core.Conflict(w, "serial number already in use")
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "asset")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAssetResponse(detail))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")

	var req UpdateAssetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	detail, err := h.service.ForceStatus(r.Context(), assetID, req.Status)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid target status")
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "asset")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAssetResponse(detail))
}

// UploadImage accepts a multipart form with an "image" field.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		core.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		core.BadRequest(w, "image file is required")
		return
	}
	defer file.Close() //nolint:errcheck // read-only temp file

	detail, err := h.service.UploadImage(r.Context(), assetID, file, header)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "unsupported or oversized image")
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "asset")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAssetResponse(detail))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")

	if err := h.service.Delete(r.Context(), assetID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "asset")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
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
