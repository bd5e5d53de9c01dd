package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/turmarkt/trendyol-catalog/internal/observability"
)

// NewRouter assembles the service routes. Token issuance lives outside this
// service; requests carry a pre-shared X-API-Token that is checked here
// when one is configured.
func NewRouter(h *Handlers, apiToken string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Token"},
	}))

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", observability.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(tokenAuth(apiToken))
		r.Post("/scrape", h.Scrape)
		r.Post("/products/update", h.UpdateProducts)
		r.Get("/products/status", h.GetProductStatus)
	})

	return r
}

func tokenAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("X-API-Token") != token {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"invalid or missing token"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
