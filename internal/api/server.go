// Package api is the HTTP shell over the query layer: a small JSON API and
// the themed dashboard page. Handlers hold no business logic.
//
// Routes:
//
//	GET /                    dashboard page (?page=&year=&theme=)
//	GET /api/years           distinct order years, newest first
//	GET /api/data            KPIs, top products and monthly trend (?year=)
//	GET /api/products_list   product listing with total sales
//	GET /api/customers_list  customer listing
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"salesdw/internal/dashboard"
	"salesdw/internal/logging"
	"salesdw/internal/query"
)

// Options configures a Server.
type Options struct {
	// Theme is used when a request names no valid theme.
	Theme dashboard.Theme
	// ListLimit bounds the product and customer listings.
	ListLimit int
}

// Server serves the API and dashboard.
type Server struct {
	svc    *query.Service
	opts   Options
	router *chi.Mux
	server *http.Server
}

// NewServer wires routes and middleware around svc.
func NewServer(svc *query.Service, opts Options) *Server {
	if opts.Theme.Name == "" {
		opts.Theme = dashboard.Light
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = query.DefaultListLimit
	}
	s := &Server{svc: svc, opts: opts, router: chi.NewRouter()}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/years", s.handleYears)
		r.Get("/data", s.handleData)
		r.Get("/products_list", s.handleProductsList)
		r.Get("/customers_list", s.handleCustomersList)
	})
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	slog.Info("api: listening", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// requestLogger logs one line per request with the chi request ID.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: json encode", "err", err)
	}
}
