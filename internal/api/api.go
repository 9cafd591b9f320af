// Package api serves grid layouts and vote mark overlays over HTTP.
//
// Elections are addressed by the content hash returned when they are
// stored. The routes are:
//
//	GET  /healthz                                     build information
//	POST /elections                                   store an election, returns its hash
//	GET  /elections/{hash}                            the stored election
//	GET  /elections/{hash}/layouts/{ballotStyleId}    one grid layout
//	POST /elections/{hash}/marks                      a mark overlay PDF
//
// Errors are JSON objects with the error code and a message.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ballotgrid/pkg/buildinfo"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
	"github.com/matzehuels/ballotgrid/pkg/store"
)

// maxBodyBytes bounds request bodies. Base PDFs dominate the size.
const maxBodyBytes = 32 << 20

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Store  store.Store
	Logger *log.Logger

	// Calibration is used for mark requests that do not carry their own.
	Calibration grid.Calibration
}

// New returns a server backed by st.
func New(st store.Store, logger *log.Logger, cal grid.Calibration) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Store: st, Logger: logger, Calibration: cal}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/elections", func(r chi.Router) {
		r.Post("/", s.saveElection)
		r.Route("/{hash}", func(r chi.Router) {
			r.Get("/", s.getElection)
			r.Get("/layouts/{ballotStyleId}", s.getLayout)
			r.Post("/marks", s.postMarks)
		})
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Current(),
	})
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// status maps error codes to HTTP status codes.
func status(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidElection:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodePreconditionFailed, errors.ErrCodeUnsupported,
		errors.ErrCodeLayoutImpossible, errors.ErrCodeGeometryMismatch:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeError logs server errors and writes the JSON error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := status(err)
	resp := errorResponse{
		Code:      string(errors.GetCode(err)),
		Message:   errors.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	}
	if code == http.StatusInternalServerError {
		s.Logger.Error("request failed", "request_id", resp.RequestID, "err", err)
		resp.Code = string(errors.ErrCodeInternal)
		resp.Message = "internal error"
	}
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
