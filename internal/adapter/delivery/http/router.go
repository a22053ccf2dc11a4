// Package http provides the HTTP delivery layer for the alias shortener.
// This package contains the HTTP handlers and related types used for processing
// incoming requests, validating input, and formatting responses.
package http

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/alias-shortener/docs"
)

// NewRouter initializes and returns a new Chi router configured with middleware and routes.
// baseURL is the public prefix short URLs are built from.
func NewRouter(logger *httplog.Logger, urlUseCase urlUseCase, baseURL string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer(logger.Logger))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeContent(w, r, "swagger.yml", time.Time{}, bytes.NewReader(docs.Swagger))
	})

	h := newURLHandler(urlUseCase, validator.New(), baseURL)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", handlePing)

		r.Route("/urls", func(r chi.Router) {
			r.Post("/", h.shortenURL)
			r.Get("/stats", h.getStatistics)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getURL)
				r.Delete("/", h.deleteURL)
			})
		})
	})

	r.Get("/{alias}", h.redirect)

	return r
}
