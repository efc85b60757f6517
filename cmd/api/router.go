package main

import (
	"context"
	"net/http"
	"time"

	"booklib/internal/author"
	"booklib/internal/book"
	"booklib/internal/config"
	"booklib/internal/httpx"

	"github.com/rs/zerolog"
)

type routerDeps struct {
	cfg     config.ServerConfig
	log     zerolog.Logger
	books   *book.HTTPHandler
	authors *author.HTTPHandler
	ping    func(context.Context) error
}

func newRouter(ctx context.Context, d routerDeps) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.ping(pingCtx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /books", d.books.List)
	router.HandleFunc("POST /books", d.books.Create)
	router.HandleFunc("GET /books/{id}", d.books.Get)
	router.HandleFunc("PUT /books/{id}", d.books.Update)
	router.HandleFunc("GET /authors", d.authors.Search)

	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.log),
		httpx.RecoveryMiddleware(d.log),
		httpx.SecurityHeadersMiddleware(d.cfg.EnableHSTS),
		httpx.CORSMiddleware(d.cfg.AllowedOrigins()),
		httpx.RequestSizeLimitMiddleware(d.cfg.MaxBodyBytes),
	}
	if d.cfg.RateLimitRPS > 0 {
		limiter := httpx.NewRateLimitMiddleware(ctx, d.cfg.RateLimitRPS, d.cfg.RateLimitBurst, d.cfg.TrustProxy)
		middlewares = append(middlewares, limiter.Middleware)
	}

	return httpx.Chain(router, middlewares...)
}
