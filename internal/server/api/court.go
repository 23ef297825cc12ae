package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"courtbook/internal/server/storage"
	"courtbook/pkg/models"
)

// ListCourts returns courts together with the fixed slot catalog. With
// ?sport= only the selectable courts for that sport are returned, which
// is what the booking form needs.
func (s *Server) ListCourts(w http.ResponseWriter, r *http.Request) {
	var (
		courts []models.Court
		err    error
	)
	if sport := r.URL.Query().Get("sport"); sport != "" {
		courts, err = s.courts.ListSelectable(r.Context(), sport)
	} else {
		courts, err = s.courts.List(r.Context())
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list courts")
		return
	}
	if courts == nil {
		courts = []models.Court{}
	}
	respondJSON(w, http.StatusOK, models.CourtListResponse{
		Courts: courts,
		Slots:  models.Slots(),
	})
}

// CreateCourt adds a court. Staff only.
func (s *Server) CreateCourt(w http.ResponseWriter, r *http.Request) {
	var req models.CourtRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields := validateCourtRequest(&req); len(fields) > 0 {
		respondValidationErrors(w, fields)
		return
	}

	court := &models.Court{
		Name:        strings.TrimSpace(req.Name),
		SportType:   req.SportType,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		court.IsAvailable = *req.IsAvailable
	}

	if err := s.courts.Create(r.Context(), court); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create court")
		return
	}
	respondJSON(w, http.StatusCreated, court)
}

// UpdateCourt edits a court, including toggling availability. Staff only.
func (s *Server) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "court not found")
		return
	}

	var req models.CourtRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fields := validateCourtRequest(&req); len(fields) > 0 {
		respondValidationErrors(w, fields)
		return
	}

	court, err := s.courts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "court not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update court")
		return
	}

	court.Name = strings.TrimSpace(req.Name)
	court.SportType = req.SportType
	if req.IsAvailable != nil {
		court.IsAvailable = *req.IsAvailable
	}

	if err := s.courts.Update(r.Context(), court); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "court not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update court")
		return
	}
	respondJSON(w, http.StatusOK, court)
}

func validateCourtRequest(req *models.CourtRequest) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "Court name is required."
	}
	if !models.IsSportType(req.SportType) {
		fields["sport_type"] = "Invalid sport type."
	}
	return fields
}
