package lending

import (
	"errors"
	"net/http"
	"strconv"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service         *Service
	defaultLoanDays int
}

func NewHTTPHandler(service *Service, defaultLoanDays int) *HTTPHandler {
	return &HTTPHandler{service: service, defaultLoanDays: defaultLoanDays}
}

// Issue handles POST /transactions/issue
// @Summary Lend a book to a member
// @Tags transactions
// @Produce json
// @Param bookId query int true "Book ID"
// @Param memberId query int true "Member ID"
// @Param loanPeriodDays query int false "Loan period in days" default(14)
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /transactions/issue [post]
func (h *HTTPHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var details []httpx.ErrorDetail
	bookID, err := httpx.QueryID(r, "bookId")
	if err != nil {
		details = append(details, httpx.ErrorDetail{Field: "bookId", Message: err.Error()})
	}
	memberID, err := httpx.QueryID(r, "memberId")
	if err != nil {
		details = append(details, httpx.ErrorDetail{Field: "memberId", Message: err.Error()})
	}
	days := h.defaultLoanDays
	if raw := r.URL.Query().Get("loanPeriodDays"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 {
			details = append(details, httpx.ErrorDetail{Field: "loanPeriodDays", Message: "loanPeriodDays must be a positive integer"})
		}
	}
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	t, err := h.service.IssueBook(r.Context(), bookID, memberID, days)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, t)
}

// Return handles PUT /transactions/{id}/return
// @Summary Return a lent book
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /transactions/{id}/return [put]
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	t, err := h.service.ReturnBook(r.Context(), id)
	if err != nil {
		h.writeWorkflowError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, t, nil)
}

// List handles GET /transactions
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r)(h.service.List(r.Context()))
}

// GetByID handles GET /transactions/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	t, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Transaction not found", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, t, nil)
}

// ListByMember handles GET /transactions/member/{memberId}
func (h *HTTPHandler) ListByMember(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "memberId")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	h.writeList(w, r)(h.service.ListByMember(r.Context(), id))
}

// ListByBook handles GET /transactions/book/{bookId}
func (h *HTTPHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "bookId")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	h.writeList(w, r)(h.service.ListByBook(r.Context(), id))
}

// ListActive handles GET /transactions/active
func (h *HTTPHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r)(h.service.ListActive(r.Context()))
}

// ListOverdue handles GET /transactions/overdue
// @Summary Open loans past their due date
// @Tags transactions
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /transactions/overdue [get]
func (h *HTTPHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r)(h.service.ListOverdue(r.Context()))
}

func (h *HTTPHandler) writeList(w http.ResponseWriter, r *http.Request) func([]Transaction, error) {
	return func(ts []Transaction, err error) {
		if err != nil {
			httpx.InternalError(w, r, err)
			return
		}
		httpx.JSONSuccess(w, r, ts, map[string]any{"total": len(ts)})
	}
}

// writeWorkflowError reports issue and return failures as 400s whose code
// names the cause.
func (h *HTTPHandler) writeWorkflowError(w http.ResponseWriter, r *http.Request, err error) {
	var code string
	switch {
	case errors.Is(err, ErrNotFound):
		code = "NOT_FOUND"
	case errors.Is(err, ErrNoCopiesAvailable):
		code = "NO_COPIES_AVAILABLE"
	case errors.Is(err, ErrMemberInactive):
		code = "MEMBER_INACTIVE"
	case errors.Is(err, ErrAlreadyReturned):
		code = "ALREADY_RETURNED"
	case errors.Is(err, ErrInvalidLoanPeriod):
		code = "VALIDATION_ERROR"
	default:
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONError(w, r, http.StatusBadRequest, code, "Error: "+err.Error(), nil)
}
