package api

import (
	"context"
	"net/http"
	"strings"

	"courtbook/pkg/models"
	"courtbook/pkg/utils"
)

type contextKey string

const userClaimsKey contextKey = "userClaims"

// AuthMiddleware validates the bearer session token. Pending tokens
// from the password step are rejected here; they are only good for the
// OTP verification endpoint.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := utils.ValidateJWT(parts[1], secret)
			if err != nil || claims.Purpose != utils.PurposeSession {
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserClaims returns the authenticated claims, or nil outside the
// auth middleware.
func GetUserClaims(r *http.Request) *utils.Claims {
	claims, ok := r.Context().Value(userClaimsKey).(*utils.Claims)
	if !ok {
		return nil
	}
	return claims
}

// StaffMiddleware gates staff-only routes. Denied attempts are
// recorded as UNAUTHORIZED audit entries.
func (s *Server) StaffMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserClaims(r)
		if claims == nil {
			respondError(w, http.StatusUnauthorized, "missing authorization claims")
			return
		}
		if !claims.Staff {
			s.audit.Record(r.Context(), claims.UserID, models.ActionUnauthorized, clientIP(r))
			respondError(w, http.StatusForbidden, "staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
