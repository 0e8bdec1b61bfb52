// Package server exposes the pandoc filter over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gubarz/codeappendix/internal/filter"
	"github.com/gubarz/codeappendix/internal/pandoc"
)

// DefaultMaxBytes caps request bodies when no limit is configured
const DefaultMaxBytes = 32 << 20

// Server is the HTTP front end for the filter
type Server struct {
	router   chi.Router
	log      *zap.Logger
	maxBytes int64
}

// New creates and configures the HTTP server. maxBytes <= 0 uses DefaultMaxBytes.
func New(log *zap.Logger, maxBytes int64) *Server {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	s := &Server{log: log, maxBytes: maxBytes}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Post("/v1/filter", s.handleFilter)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleFilter runs the filter on a pandoc JSON body. The target format
// comes from the "to" query parameter, then the document's metadata.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxBytes)
	log := s.log.With(zap.String("request_id", middleware.GetReqID(r.Context())))

	var out bytes.Buffer
	report, err := filter.Pandoc(body, &out, r.URL.Query().Get("to"), filter.Logging{Log: log})
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			jsonError(w, "request body exceeds "+strconv.FormatInt(s.maxBytes, 10)+" bytes", http.StatusRequestEntityTooLarge)
		case errors.Is(err, pandoc.ErrUnsupportedVersion):
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, pandoc.ErrMalformed):
			jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error("filter failed", zap.Error(err))
			jsonError(w, "filter failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Code-Appendix-Entries", strconv.Itoa(report.Entries))
	w.WriteHeader(http.StatusOK)
	w.Write(out.Bytes())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
