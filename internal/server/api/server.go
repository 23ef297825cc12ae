package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"courtbook/internal/server/config"
	"courtbook/internal/server/services"
	"courtbook/internal/server/storage"
)

// Server wires the HTTP surface to the services.
type Server struct {
	cfg      config.App
	auth     *services.AuthService
	bookings *services.BookingService
	audit    *services.AuditService
	courts   *storage.CourtRepository
}

func NewServer(
	cfg config.App,
	auth *services.AuthService,
	bookings *services.BookingService,
	audit *services.AuditService,
	courts *storage.CourtRepository,
) *Server {
	return &Server{
		cfg:      cfg,
		auth:     auth,
		bookings: bookings,
		audit:    audit,
		courts:   courts,
	}
}

// Routes builds the router. The login and OTP endpoints sit behind a
// per-IP rate limiter; everything under /api except the account
// endpoints requires a session token.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "courtbook"})
	})

	authLimiter := NewRateLimiter(s.cfg.AuthRatePerMin, s.cfg.AuthRateBurst)

	r.Route("/api/accounts", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.With(authLimiter.Limit).Post("/login", s.Login)
		r.With(authLimiter.Limit).Post("/verify-otp", s.VerifyOTP)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(s.cfg.JWTSecret))
			r.Get("/profile", s.Profile)
			r.Put("/profile", s.UpdateProfile)
			r.Post("/change-password", s.ChangePassword)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.JWTSecret))

		r.Route("/courts", func(r chi.Router) {
			r.Get("/", s.ListCourts)
			r.Group(func(r chi.Router) {
				r.Use(s.StaffMiddleware)
				r.Post("/", s.CreateCourt)
				r.Put("/{id}", s.UpdateCourt)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", s.CreateBooking)
			r.Get("/", s.MyBookings)
			r.Put("/{id}", s.UpdateBooking)
			r.Delete("/{id}", s.DeleteBooking)
			r.Get("/{id}/qr", s.BookingQR)
		})

		r.With(s.StaffMiddleware).Get("/logs/audit-log", s.AuditLog)
	})

	return r
}
