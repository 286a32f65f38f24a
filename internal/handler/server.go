// Package handler implements the HTTP boundary of the export engine.
// Handlers are methods on Server; routing is registered through Register so
// main stays pure wiring.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/mwetzel/fieldwave/backend/internal/domain"
	"github.com/mwetzel/fieldwave/backend/internal/render"
)

// ExportServicer defines the export operation the handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the service or repo layers.
type ExportServicer interface {
	Export(ctx context.Context, req domain.ExportRequest) (*render.Workbook, string, error)
}

// Server holds the handler dependencies for all endpoints.
type Server struct {
	exports ExportServicer
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default.
func NewServer(exports ExportServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{exports: exports, log: log}
}

// Register mounts all routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Post("/export", s.PostExport)
}
