package web

import (
	"net/http"

	"github.com/JonMunkholm/textflow/internal/core"
)

// handleHistory lists recent history entries, optionally for one email.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", core.DefaultHistoryLimit)

	entries, err := s.service.RecentHistory(r.Context(), r.URL.Query().Get("email"), limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleSearch finds history entries by filename or operation.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", core.DefaultHistoryLimit)

	entries, err := s.service.SearchHistory(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
