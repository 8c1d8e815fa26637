// Package server exposes the solver over HTTP.
//
//	POST /fixed_point  run a solve, respond with {"iterations": [...]}
//	GET  /schema       request schema for clients
//	GET  /health       liveness check
//	GET  /metrics      Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	fixedpoint "github.com/njchilds90/gofixedpoint"
	"github.com/njchilds90/gofixedpoint/internal/config"
	"github.com/njchilds90/gofixedpoint/internal/logging"
	"github.com/njchilds90/gofixedpoint/internal/metrics"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// Server routes HTTP requests to the solver.
type Server struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Registry
	handler http.Handler
}

// New builds a server. A nil logger discards output and a nil registry
// gets a fresh one.
func New(cfg *config.Config, logger *logging.Logger, reg *metrics.Registry) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if reg == nil {
		reg = metrics.New()
	}
	s := &Server{
		cfg:     cfg,
		logger:  logger.WithComponent("server"),
		metrics: reg,
	}

	mux := http.NewServeMux()
	s.route(mux, "POST /fixed_point", "/fixed_point", http.HandlerFunc(s.handleFixedPoint))
	s.route(mux, "GET /schema", "/schema", http.HandlerFunc(handleSchema))
	s.route(mux, "GET /health", "/health", http.HandlerFunc(handleHealth))
	s.route(mux, "GET /metrics", "/metrics", reg.Handler())
	s.handler = s.withRequestID(mux)
	return s
}

// Handler returns the root handler, for embedding or tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests up to the write timeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout(),
		ReadTimeout:       s.cfg.ReadTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// route registers h and wraps it with metrics and the access log.
func (s *Server) route(mux *http.ServeMux, pattern, name string, h http.Handler) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		h.ServeHTTP(sw, r)
		elapsed := time.Since(start)

		s.metrics.ObserveHTTP(name, sw.code, elapsed)
		s.logger.Info("request",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.code,
			"duration", elapsed,
		)
	}))
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) handleFixedPoint(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("request_id", RequestID(r.Context()))
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic in /fixed_point", "panic", rec, "stack", string(debug.Stack()))
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Server error: %v", rec))
		}
	}()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Limits.MaxBodyBytes)
	defer r.Body.Close()

	req, err := decodeRequest(r.Body)
	if err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			writeError(w, http.StatusBadRequest, reqErr.msg)
			return
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.checkLimits(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Debug("received", "equation", req.Equation, "x0", req.InitialGuess,
		"max_iterations", req.MaxIterations, "tolerance", req.Tolerance, "decimal_places", req.DecimalPlaces)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.SolveTimeout())
	defer cancel()

	start := time.Now()
	trace := fixedpoint.Solve(ctx, req, fixedpoint.WithLogger(logger))
	s.metrics.ObserveSolve(string(trace.Status), progressRows(trace.Records), time.Since(start))

	writeJSON(w, http.StatusOK, map[string][]fixedpoint.Record{"iterations": trace.Records})
}

// checkLimits applies the request constraints plus the server's own caps.
func (s *Server) checkLimits(req fixedpoint.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if limit := s.cfg.Limits.MaxIterations; req.MaxIterations > limit {
		return fmt.Errorf("maxIterations exceeds server limit of %d", limit)
	}
	if limit := s.cfg.Limits.MaxDecimalPlaces; req.DecimalPlaces > limit {
		return fmt.Errorf("decimalPlaces exceeds server limit of %d", limit)
	}
	return nil
}

func progressRows(records []fixedpoint.Record) int {
	n := 0
	for _, r := range records {
		if r.Kind == fixedpoint.KindProgress {
			n++
		}
	}
	return n
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

type statusWriter struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.code, w.wroteHeader = code, true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
