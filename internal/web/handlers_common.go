package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/textflow/internal/core"
)

// decodeJSON decodes the request body into v. An empty body leaves v at
// its zero value. Syntax and type errors, and any data after the first
// JSON value, are wrapped in core.ErrInvalidRequest.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(v)
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return invalidBody(err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON value")
		}
		return invalidBody(err)
	}
	return nil
}

func invalidBody(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	return fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status     string             `json:"status"`
	Operations int                `json:"operations"`
	Analyze    core.LimiterStatus `json:"analyze"`
	Database   bool               `json:"database"`
}

// handleHealth reports liveness along with limiter occupancy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Operations: len(s.service.Operations()),
		Analyze:    s.service.Limiter().Status(),
		Database:   s.service.PersistenceEnabled(),
	})
}
