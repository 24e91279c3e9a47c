package member

import (
	"context"
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /members
// @Summary List members
// @Tags members
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /members [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context())
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, members, map[string]any{"total": len(members)})
}

// ListActive handles GET /members/active
func (h *HTTPHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListActive(r.Context())
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, members, map[string]any{"total": len(members)})
}

// Search handles GET /members/search?query=
// @Summary Search members by name or email
// @Tags members
// @Produce json
// @Param query query string false "Case-insensitive name/email fragment"
// @Success 200 {object} httpx.SuccessResponse
// @Router /members/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, members, map[string]any{"total": len(members)})
}

// GetByID handles GET /members/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	m, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// GetByMemberID handles GET /members/member-id/{memberId}
func (h *HTTPHandler) GetByMemberID(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetByMemberID(r.Context(), r.PathValue("memberId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// GetByEmail handles GET /members/email/{email}
func (h *HTTPHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// Create handles POST /members
// @Summary Register a member
// @Tags members
// @Accept json
// @Produce json
// @Param request body Input true "Member"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /members [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	m, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, m)
}

// Update handles PUT /members/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(in); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	m, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// Delete handles DELETE /members/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// Deactivate handles PUT /members/{id}/deactivate
func (h *HTTPHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.Deactivate)
}

// Activate handles PUT /members/{id}/activate
func (h *HTTPHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.Activate)
}

func (h *HTTPHandler) toggle(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) (Member, error)) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	m, err := fn(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Member not found", nil)
	case errors.Is(err, ErrDuplicateMemberID), errors.Is(err, ErrDuplicateEmail):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", err.Error(), nil)
	case errors.Is(err, ErrHasTransactions):
		httpx.JSONError(w, r, http.StatusConflict, "HAS_TRANSACTIONS", err.Error(), nil)
	default:
		httpx.InternalError(w, r, err)
	}
}
