package api

import (
	"errors"
	"net/http"
	"time"

	"courtbook/internal/server/services"
	"courtbook/pkg/models"
	"courtbook/pkg/utils"
)

// Register creates an account.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var fields services.ValidationErrors
		switch {
		case errors.As(err, &fields):
			respondValidationErrors(w, fields)
		case errors.Is(err, services.ErrUsernameTaken):
			respondValidationErrors(w, map[string]string{"username": err.Error()})
		default:
			respondError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login is the password step of the two-factor flow. On success it
// issues an OTP and returns a pending token for the verification step.
// Failures are reported with one generic message so the response never
// reveals whether the username exists.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.auth.Authenticate(r.Context(), req.Username, req.Password, clientIP(r))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if _, err := s.auth.IssueOTP(r.Context(), user); err != nil {
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	pending, err := utils.GenerateJWT(user.ID, user.Username, user.IsStaff,
		utils.PurposeOTP, s.cfg.JWTSecret, s.cfg.OTPTTL())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	respondJSON(w, http.StatusOK, models.LoginResponse{
		Message:      "Verification code sent to your email",
		PendingToken: pending,
		ExpiresIn:    int(s.cfg.OTPTTL().Seconds()),
	})
}

// VerifyOTP is the second factor. It consumes the pending token and
// the submitted code; on success the OTP row is deleted and a session
// token is returned. All failures share one generic message.
func (s *Server) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, err := utils.ValidateJWT(req.PendingToken, s.cfg.JWTSecret)
	if err != nil || claims.Purpose != utils.PurposeOTP {
		respondError(w, http.StatusUnauthorized, "Verification session expired. Please login again.")
		return
	}

	user, err := s.auth.VerifyOTP(r.Context(), claims.UserID, req.Code, clientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoPendingOTP),
			errors.Is(err, services.ErrOTPExpired),
			errors.Is(err, services.ErrOTPMismatch):
			respondError(w, http.StatusUnauthorized, "Invalid or expired OTP")
		default:
			respondError(w, http.StatusInternalServerError, "verification failed")
		}
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Username, user.IsStaff,
		utils.PurposeSession, s.cfg.JWTSecret, s.cfg.SessionTTL())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "verification failed")
		return
	}

	respondJSON(w, http.StatusOK, models.VerifyOTPResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.cfg.SessionTTL()).Format(time.RFC3339),
	})
}

// Profile returns the authenticated account.
func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)
	user, err := s.auth.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile changes the account email.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)

	var req models.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.auth.UpdateProfile(r.Context(), claims.UserID, req.Email)
	if err != nil {
		var fields services.ValidationErrors
		if errors.As(err, &fields) {
			respondValidationErrors(w, fields)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ChangePassword verifies the current password, sets the new one, and
// returns a fresh session token.
func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r)

	var req models.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.auth.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		var fields services.ValidationErrors
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			respondError(w, http.StatusBadRequest, "Current password is incorrect")
		case errors.As(err, &fields):
			respondValidationErrors(w, fields)
		default:
			respondError(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	token, err := utils.GenerateJWT(claims.UserID, claims.Username, claims.Staff,
		utils.PurposeSession, s.cfg.JWTSecret, s.cfg.SessionTTL())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to change password")
		return
	}

	respondJSON(w, http.StatusOK, models.ChangePasswordResponse{
		Message: "Password updated successfully",
		Token:   token,
	})
}
