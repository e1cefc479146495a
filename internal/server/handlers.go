package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/dealscore/internal/pipeline"
	"github.com/sells-group/dealscore/internal/scorer"
)

// multipartMemory is the in-memory share of a parsed upload; the rest
// spills to temp files.
const multipartMemory = 8 << 20

type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}

type criteriaBody struct {
	Active   []string       `json:"active"`
	Criteria scorer.Catalog `json:"criteria"`
	Weights  scorer.Weights `json:"weights"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCriteria(w http.ResponseWriter, _ *http.Request) {
	sc := s.eval.Scorer()
	var active []string
	for _, cr := range sc.Active() {
		active = append(active, cr.Name)
	}
	writeJSON(w, http.StatusOK, criteriaBody{
		Active:   active,
		Criteria: sc.Catalog(),
		Weights:  sc.Weights(),
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.eval.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, pipeline.KindTooLarge, "document too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid_request", "expected a multipart form with a document field")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "document field is required")
		return
	}
	defer file.Close() //nolint:errcheck

	var overrides scorer.Overrides
	if raw := strings.TrimSpace(r.FormValue("overrides")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			writeError(w, r, http.StatusBadRequest, pipeline.KindInvalidInput, "overrides must be a JSON object of criterion to score")
			return
		}
	}

	doc, err := pipeline.ReadDocument(header.Filename, r.FormValue("type"), file, maxBytes)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.eval.Evaluate(r.Context(), doc, overrides)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// statusClientClosedRequest reports a request the client abandoned.
const statusClientClosedRequest = 499

// fail maps an evaluation error onto an HTTP status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := pipeline.ErrorKind(err)
	status := http.StatusInternalServerError
	switch kind {
	case pipeline.KindUnsupported:
		status = http.StatusUnsupportedMediaType
	case pipeline.KindTooLarge:
		status = http.StatusRequestEntityTooLarge
	case pipeline.KindInvalidInput:
		status = http.StatusBadRequest
	case pipeline.KindTimeout:
		status = http.StatusGatewayTimeout
	case pipeline.KindUnavailable:
		status = http.StatusServiceUnavailable
	case pipeline.KindCanceled:
		status = statusClientClosedRequest
	}

	switch status {
	case statusClientClosedRequest:
		zap.L().Debug("server: client went away",
			zap.String("request_id", RequestIDFrom(r.Context())),
		)
	case http.StatusInternalServerError:
		zap.L().Error("server: evaluation failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
	}
	writeError(w, r, status, kind, err.Error())
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Kind: kind, RequestID: RequestIDFrom(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}
