package models

// Account API types
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message      string `json:"message"`
	PendingToken string `json:"pending_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type VerifyOTPRequest struct {
	PendingToken string `json:"pending_token"`
	Code         string `json:"code"`
}

type VerifyOTPResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type UpdateProfileRequest struct {
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ChangePasswordResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Booking API types
type BookingRequest struct {
	CourtID     string `json:"court_id"`
	BookingDate string `json:"booking_date"`
	BookingTime string `json:"booking_time"`
}

type BookingListResponse struct {
	Bookings []BookingWithCourt `json:"bookings"`
}

// Court API types
type CourtRequest struct {
	Name        string `json:"name"`
	SportType   string `json:"sport_type"`
	IsAvailable *bool  `json:"is_available,omitempty"`
}

type CourtListResponse struct {
	Courts []Court `json:"courts"`
	Slots  []Slot  `json:"slots"`
}

// Audit API types
type AuditLogResponse struct {
	Entries []AuditEntry `json:"entries"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ValidationErrorResponse carries field-keyed validation failures.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
