package api

import (
	"net/http"
	"strconv"

	"courtbook/pkg/models"
)

// AuditLog returns the newest audit entries. Staff only; enforced by
// StaffMiddleware on the route.
func (s *Server) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := s.audit.ListRecent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read audit log")
		return
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	respondJSON(w, http.StatusOK, models.AuditLogResponse{Entries: entries})
}
