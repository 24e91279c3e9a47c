package main

import (
	"context"
	"net/http"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/lending"
	"libraryapi/internal/member"

	"go.uber.org/zap"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	books   *book.HTTPHandler
	members *member.HTTPHandler
	lending *lending.HTTPHandler
}

func newRouter(h handlers, db pinger) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /books", h.books.List)
	router.HandleFunc("GET /books/search", h.books.Search)
	router.HandleFunc("GET /books/{id}", h.books.GetByID)
	router.HandleFunc("GET /books/{id}/{sub}", h.books.Nested)
	router.HandleFunc("POST /books", h.books.Create)
	router.HandleFunc("PUT /books/{id}", h.books.Update)
	router.HandleFunc("DELETE /books/{id}", h.books.Delete)

	router.HandleFunc("GET /members", h.members.List)
	router.HandleFunc("GET /members/active", h.members.ListActive)
	router.HandleFunc("GET /members/search", h.members.Search)
	router.HandleFunc("GET /members/{id}", h.members.GetByID)
	router.HandleFunc("GET /members/member-id/{memberId}", h.members.GetByMemberID)
	router.HandleFunc("GET /members/email/{email}", h.members.GetByEmail)
	router.HandleFunc("POST /members", h.members.Create)
	router.HandleFunc("PUT /members/{id}", h.members.Update)
	router.HandleFunc("DELETE /members/{id}", h.members.Delete)
	router.HandleFunc("PUT /members/{id}/deactivate", h.members.Deactivate)
	router.HandleFunc("PUT /members/{id}/activate", h.members.Activate)

	router.HandleFunc("POST /transactions/issue", h.lending.Issue)
	router.HandleFunc("PUT /transactions/{id}/return", h.lending.Return)
	router.HandleFunc("GET /transactions", h.lending.List)
	router.HandleFunc("GET /transactions/active", h.lending.ListActive)
	router.HandleFunc("GET /transactions/overdue", h.lending.ListOverdue)
	router.HandleFunc("GET /transactions/{id}", h.lending.GetByID)
	router.HandleFunc("GET /transactions/member/{memberId}", h.lending.ListByMember)
	router.HandleFunc("GET /transactions/book/{bookId}", h.lending.ListByBook)

	return router
}

// withMiddleware wraps the router in the server's middleware stack. The rate
// limiter's sweeper stops when ctx is done.
func withMiddleware(ctx context.Context, router http.Handler, cfg config.Config, logger *zap.Logger) http.Handler {
	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	return httpx.Chain(router,
		httpx.RequestIDMiddleware(logger),
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSAllowedOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		rateLimiter.Middleware,
	)
}
