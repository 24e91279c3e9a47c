package member

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryapi/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestHTTPHandler_Create(t *testing.T) {
	svc, repo := newTestService(t)
	handler := NewHTTPHandler(svc)

	t.Run("created", func(t *testing.T) {
		repo.EXPECT().GetByMemberID(gomock.Any(), "M-100").Return(Member{}, ErrNotFound)
		repo.EXPECT().GetByEmail(gomock.Any(), "grace@example.com").Return(Member{}, ErrNotFound)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/members", map[string]interface{}{
			"member_id":  "M-100",
			"first_name": "Grace",
			"last_name":  "Hopper",
			"email":      "grace@example.com",
		})

		handler.Create(w, r)

		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusCreated, res.Code)
		assert.Equal(t, true, res.Data()["is_active"])
		assert.Equal(t, "M-100", res.Data()["member_id"])
	})

	t.Run("invalid email", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/members", map[string]interface{}{
			"member_id":  "M-100",
			"first_name": "Grace",
			"last_name":  "Hopper",
			"email":      "not-an-email",
		})

		handler.Create(w, r)

		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "VALIDATION_ERROR", res.ErrorCode())
	})

	t.Run("conflict", func(t *testing.T) {
		repo.EXPECT().GetByMemberID(gomock.Any(), "M-100").Return(Member{ID: 1}, nil)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/members", map[string]interface{}{
			"member_id":  "M-100",
			"first_name": "Grace",
			"last_name":  "Hopper",
			"email":      "grace@example.com",
		})

		handler.Create(w, r)

		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusConflict, res.Code)
		assert.Equal(t, "ALREADY_EXISTS", res.ErrorCode())
	})
}

func TestHTTPHandler_Lookups(t *testing.T) {
	svc, repo := newTestService(t)
	handler := NewHTTPHandler(svc)

	t.Run("by member id", func(t *testing.T) {
		repo.EXPECT().GetByMemberID(gomock.Any(), "M-7").Return(Member{ID: 7, MemberID: "M-7"}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/members/member-id/M-7", nil)
		r.SetPathValue("memberId", "M-7")

		handler.GetByMemberID(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("by email not found", func(t *testing.T) {
		repo.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(Member{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/members/email/nobody@example.com", nil)
		r.SetPathValue("email", "nobody@example.com")

		handler.GetByEmail(w, r)

		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusNotFound, res.Code)
		assert.Equal(t, "NOT_FOUND", res.ErrorCode())
	})

	t.Run("active list", func(t *testing.T) {
		repo.EXPECT().ListActive(gomock.Any()).Return([]Member{{ID: 1, IsActive: true}}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/members/active", nil)

		handler.ListActive(w, r)

		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Len(t, res.List(), 1)
	})
}

func TestHTTPHandler_Deactivate(t *testing.T) {
	svc, repo := newTestService(t)
	handler := NewHTTPHandler(svc)

	repo.EXPECT().SetActive(gomock.Any(), int64(3), false).Return(nil)
	repo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(Member{ID: 3, IsActive: false}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/members/3/deactivate", nil)
	r.SetPathValue("id", "3")

	handler.Deactivate(w, r)

	res := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, false, res.Data()["is_active"])
}

func TestHTTPHandler_Delete(t *testing.T) {
	svc, repo := newTestService(t)
	handler := NewHTTPHandler(svc)

	repo.EXPECT().GetByID(gomock.Any(), int64(8)).Return(Member{ID: 8}, nil)
	repo.EXPECT().Delete(gomock.Any(), int64(8)).Return(ErrHasTransactions)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/members/8", nil)
	r.SetPathValue("id", "8")

	handler.Delete(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
}
