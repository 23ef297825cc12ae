package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"courtbook/internal/server/services"
	"courtbook/internal/server/storage"
	"courtbook/pkg/models"
)

// CreateBooking books a slot. The sport context comes from the query
// string, mirroring the create form's ?sport= parameter.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	user, err := s.auth.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "account not found")
		return
	}

	var req models.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	booking, err := s.bookings.Create(r.Context(), user, r.URL.Query().Get("sport"), req, clientIP(r))
	if err != nil {
		s.respondBookingError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, booking)
}

// MyBookings lists the authenticated user's bookings.
func (s *Server) MyBookings(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	bookings, err := s.bookings.ListForUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []models.BookingWithCourt{}
	}
	respondJSON(w, http.StatusOK, models.BookingListResponse{Bookings: bookings})
}

// UpdateBooking edits an owned booking.
func (s *Server) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	user, err := s.auth.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "account not found")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "booking not found")
		return
	}

	var req models.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	booking, err := s.bookings.Update(r.Context(), user, id, req, clientIP(r))
	if err != nil {
		s.respondBookingError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

// DeleteBooking removes an owned booking.
func (s *Server) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	user, err := s.auth.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "account not found")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "booking not found")
		return
	}

	if err := s.bookings.Delete(r.Context(), user, id, clientIP(r)); err != nil {
		s.respondBookingError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Booking deleted successfully"})
}

// BookingQR renders a PNG check-in code for an owned booking.
func (s *Server) BookingQR(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "booking not found")
		return
	}

	booking, err := s.bookings.GetOwned(r.Context(), id, claims.UserID)
	if err != nil {
		s.respondBookingError(w, r, err)
		return
	}

	payload := fmt.Sprintf("courtbook:booking:%s:%s:%s",
		booking.ID, booking.BookingDate, booking.BookingTime)
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// respondBookingError maps service errors onto the response taxonomy:
// validation failures inline, ownership misses as not-found plus an
// UNAUTHORIZED audit entry, everything else a generic 500.
func (s *Server) respondBookingError(w http.ResponseWriter, r *http.Request, err error) {
	var fields services.ValidationErrors
	switch {
	case errors.As(err, &fields):
		respondValidationErrors(w, fields)
	case errors.Is(err, storage.ErrNotFound):
		claims := GetUserClaims(r)
		if claims != nil {
			s.audit.Record(r.Context(), claims.UserID, models.ActionUnauthorized, clientIP(r))
		}
		respondError(w, http.StatusNotFound, "booking not found")
	default:
		respondError(w, http.StatusInternalServerError, "request failed")
	}
}
