package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/textflow/internal/core"
	"github.com/JonMunkholm/textflow/internal/logging"
)

type analyzeRequest struct {
	Text       string   `json:"text"`
	Operations []string `json:"operations"`
	Email      string   `json:"email"`
	Filename   string   `json:"filename"`
}

type analyzeResponse struct {
	Results core.ResultSet `json:"results"`
	Stats   core.RunStats  `json:"stats"`
	RunID   string         `json:"run_id"`
}

type exportRequest struct {
	Results []core.Outcome `json:"results"`
}

type operationsResponse struct {
	Operations []string `json:"operations"`
}

// handleOperations lists the registered operation names.
func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, operationsResponse{Operations: s.service.Operations()})
}

// handleAnalyze runs the requested operations over the submitted text.
// Per-operation failures are reported inside results; only request-level
// failures produce an error response.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Debug("analyze request",
		"operations", len(req.Operations),
		"text_bytes", len(req.Text),
	)

	res, err := s.service.Analyze(r.Context(), core.AnalyzeRequest{
		Text:       req.Text,
		Operations: req.Operations,
		Email:      req.Email,
		Filename:   req.Filename,
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Results: res.Results,
		Stats:   res.Stats,
		RunID:   res.RunID,
	})
}

// handleExport converts a result set to a downloadable CSV report. A
// missing or empty results array yields a header-only file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := core.WriteTabular(&buf, core.Aggregate(req.Results)); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", core.ReportContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+core.ReportFilename)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
