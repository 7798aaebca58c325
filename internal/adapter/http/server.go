package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxClassifyBytes bounds the HTML accepted by POST /classify.
const maxClassifyBytes = 32 << 20

// Server exposes health, readiness, metrics and classification endpoints.
type Server struct {
	httpServer *http.Server
	classifier *domain.Classifier
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// /classify routes. A nil classifier uses the default patterns.
func NewServer(addr string, ready sharedobs.ReadinessChecker, classifier *domain.Classifier, logger *slog.Logger) *Server {
	if classifier == nil {
		classifier = domain.NewClassifier(nil)
	}
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		classifier: classifier,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /classify", s.handleClassify)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleClassify runs the table classifier over an HTML document posted as
// the request body and returns the outcome.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxClassifyBytes)
	out, err := s.classifier.ClassifyReader(body)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	s.logger.Debug("classified document", "parse_result", out.Result, "table_type", out.TableType)
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

// Readiness combines several checkers; the first failure wins.
type Readiness []sharedobs.ReadinessChecker

// CheckReadiness implements sharedobs.ReadinessChecker.
func (rs Readiness) CheckReadiness(ctx context.Context) error {
	for _, c := range rs {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}
