// Package api - Thin JSON API over the calculators
// The API is ONLY responsible for: input ingestion, engine orchestration, output serialization.
// The API NEVER performs financial logic.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"fincalc/core/tax"
	"fincalc/internal/config"
	"fincalc/internal/errors"
	"fincalc/internal/logging"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Server is the API server
type Server struct {
	handler *Handler
	mux     *http.ServeMux
	chain   http.Handler
	limiter *RateLimiter
	logger  *zap.Logger
	version string
}

// Option customizes a Server
type Option func(*Server)

// WithLogger replaces the global logger as the base request logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, tables *tax.Registry, version string, opts ...Option) (*Server, error) {
	s := &Server{
		handler: NewHandler(tables, cfg),
		mux:     http.NewServeMux(),
		logger:  logging.Named("api"),
		version: version,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerRoutes()

	var h http.Handler = s.mux
	if rl := cfg.Server.RateLimit; rl.Enabled {
		limiter, err := NewRateLimiter(rl.RequestsPerSecond, rl.Burst, rl.TrustedProxies)
		if err != nil {
			return nil, err
		}
		s.limiter = limiter
		h = s.limiter.Middleware(h)
	}
	s.chain = withRequestID(s.logger, withAccessLog(h))

	return s, nil
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Calculators
	s.mux.HandleFunc("POST /loan", s.handleLoan)
	s.mux.HandleFunc("POST /tax", s.handleTax)
	s.mux.HandleFunc("POST /salary", s.handleSalary)

	// Supporting endpoints
	s.mux.HandleFunc("GET /tax/tables", s.handleListTables)
	s.mux.HandleFunc("GET /tax/tables/{id}", s.handleGetTable)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// handleLoan handles POST /loan
func (s *Server) handleLoan(w http.ResponseWriter, r *http.Request) {
	var req LoanRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := s.handler.Loan(RequestID(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

// handleTax handles POST /tax
func (s *Server) handleTax(w http.ResponseWriter, r *http.Request) {
	var req TaxRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := s.handler.Tax(RequestID(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

// handleSalary handles POST /salary
func (s *Server) handleSalary(w http.ResponseWriter, r *http.Request) {
	var req SalaryRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := s.handler.Salary(RequestID(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

// handleListTables handles GET /tax/tables
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.handler.Tables(), http.StatusOK)
}

// handleGetTable handles GET /tax/tables/{id}
func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	table, err := s.handler.Table(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, table, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"version": s.version,
		"engine":  "fincalc",
	}, http.StatusOK)
}

// decode reads a JSON body into v, answering 400 itself on failure
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, errors.Parsing("invalid JSON body", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	body := ErrorBody{
		Code:      string(errors.TypeInternal),
		Message:   "internal error",
		RequestID: RequestID(r.Context()),
	}
	if e, ok := errors.As(err); ok {
		body.Code = string(e.Type)
		body.Message = e.Message
		body.Field = e.Field()
		if e.Type == errors.TypeParsing && e.Cause != nil {
			body.Message = e.Message + ": " + e.Cause.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("Request error", zap.Error(err))
	}
	writeJSON(w, ErrorResponse{Error: body}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.chain.ServeHTTP(w, r)
}

// Close releases background resources
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
