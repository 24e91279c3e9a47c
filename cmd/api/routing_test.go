package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/lending"
	"libraryapi/internal/member"
	"libraryapi/internal/platform/clock"
	"libraryapi/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// emptyLending answers every query with nothing and refuses writes.
type emptyLending struct{}

func (emptyLending) List(context.Context) ([]lending.Transaction, error) {
	return []lending.Transaction{}, nil
}

func (emptyLending) GetByID(context.Context, int64) (lending.Transaction, error) {
	return lending.Transaction{}, lending.ErrNotFound
}

func (emptyLending) ListByMember(context.Context, int64) ([]lending.Transaction, error) {
	return []lending.Transaction{}, nil
}

func (emptyLending) ListByBook(context.Context, int64) ([]lending.Transaction, error) {
	return []lending.Transaction{}, nil
}

func (emptyLending) ListActive(context.Context) ([]lending.Transaction, error) {
	return []lending.Transaction{}, nil
}

func (emptyLending) ListOverdue(context.Context, time.Time) ([]lending.Transaction, error) {
	return []lending.Transaction{}, nil
}

func (emptyLending) WithinTx(context.Context, func(context.Context, lending.TxRepository) error) error {
	return lending.ErrNotFound
}

type routerFixture struct {
	books   *book.MockRepository
	members *member.MockRepository
	handler http.Handler
}

func newRouterFixture(t *testing.T, db pinger) routerFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	books := book.NewMockRepository(ctrl)
	members := member.NewMockRepository(ctrl)
	c := clock.New(nil, time.UTC)

	router := newRouter(handlers{
		books:   book.NewHTTPHandler(book.NewService(books)),
		members: member.NewHTTPHandler(member.NewService(members, c)),
		lending: lending.NewHTTPHandler(lending.NewService(emptyLending{}, c, zap.NewNop()), 14),
	}, db)

	cfg := config.Config{
		RateLimitRPS:       100,
		RateLimitBurst:     100,
		MaxBodyBytes:       1 << 20,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	return routerFixture{
		books:   books,
		members: members,
		handler: withMiddleware(t.Context(), router, cfg, zap.NewNop()),
	}
}

func (f routerFixture) do(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealthEndpoints(t *testing.T) {
	healthy := newRouterFixture(t, stubPinger{})
	assert.Equal(t, http.StatusOK, healthy.do(http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusOK, healthy.do(http.MethodGet, "/readyz").Code)

	down := newRouterFixture(t, stubPinger{err: errors.New("connection refused")})
	assert.Equal(t, http.StatusOK, down.do(http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, down.do(http.MethodGet, "/readyz").Code)
}

func TestBookRoutes(t *testing.T) {
	f := newRouterFixture(t, stubPinger{})

	f.books.EXPECT().List(gomock.Any()).Return([]book.Book{}, nil)
	w := f.do(http.MethodGet, "/books")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	f.books.EXPECT().Search(gomock.Any(), "dune").Return([]book.Book{{ID: 1}}, nil)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/books/search?query=dune").Code)

	f.books.EXPECT().GetByISBN(gomock.Any(), "9780441013593").Return(book.Book{ID: 1}, nil)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/books/isbn/9780441013593").Code)

	f.books.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book.Book{ID: 1, TotalCopies: 1, AvailableCopies: 1}, nil)
	res := testutil.RecordHTTPResponse(f.do(http.MethodGet, "/books/1/availability"))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, res.Data()["available"])

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/books/1/reviews").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(http.MethodPatch, "/books/1").Code)
}

func TestMemberRoutes(t *testing.T) {
	f := newRouterFixture(t, stubPinger{})

	f.members.EXPECT().ListActive(gomock.Any()).Return([]member.Member{}, nil)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/members/active").Code)

	f.members.EXPECT().GetByMemberID(gomock.Any(), "M-9").Return(member.Member{}, member.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/members/member-id/M-9").Code)

	f.members.EXPECT().SetActive(gomock.Any(), int64(2), true).Return(nil)
	f.members.EXPECT().GetByID(gomock.Any(), int64(2)).Return(member.Member{ID: 2, IsActive: true}, nil)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPut, "/members/2/activate").Code)
}

func TestTransactionRoutes(t *testing.T) {
	f := newRouterFixture(t, stubPinger{})

	for _, path := range []string{
		"/transactions",
		"/transactions/active",
		"/transactions/overdue",
		"/transactions/member/3",
		"/transactions/book/4",
	} {
		assert.Equal(t, http.StatusOK, f.do(http.MethodGet, path).Code, path)
	}
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/transactions/5").Code)

	res := testutil.RecordHTTPResponse(f.do(http.MethodPost, "/transactions/issue?bookId=1&memberId=2"))
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "NOT_FOUND", res.ErrorCode())

	res = testutil.RecordHTTPResponse(f.do(http.MethodPut, "/transactions/5/return"))
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "NOT_FOUND", res.ErrorCode())
}

func TestCORSPreflight(t *testing.T) {
	f := newRouterFixture(t, stubPinger{})

	r := httptest.NewRequest(http.MethodOptions, "/books", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
