package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"courtbook/internal/server/storage"
	"courtbook/pkg/models"
	"courtbook/pkg/utils"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong
	// password so the response cannot reveal whether a username exists.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUsernameTaken = errors.New("username is already taken")

	// OTP verification failures. The API collapses all three into one
	// generic message; the distinction exists for logging and tests.
	ErrNoPendingOTP = errors.New("no pending verification, restart login")
	ErrOTPExpired   = errors.New("code has expired")
	ErrOTPMismatch  = errors.New("invalid code")
)

type AuthService struct {
	users  *storage.UserRepository
	otps   *storage.OTPRepository
	email  *EmailService
	audit  *AuditService
	seclog *SecurityLog

	otpTTL time.Duration

	// now is swapped out in tests to simulate the clock.
	now func() time.Time
}

func NewAuthService(
	users *storage.UserRepository,
	otps *storage.OTPRepository,
	email *EmailService,
	audit *AuditService,
	seclog *SecurityLog,
	otpTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:  users,
		otps:   otps,
		email:  email,
		audit:  audit,
		seclog: seclog,
		otpTTL: otpTTL,
		now:    time.Now,
	}
}

// Register creates an account. Validation failures come back as
// ValidationErrors keyed by field.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	fields := ValidationErrors{}
	if !utils.IsValidUsername(username) {
		fields["username"] = "Username must be 3–150 characters of letters, digits, and ._-"
	}
	if !utils.IsValidEmail(email) {
		fields["email"] = "Enter a valid email address."
	}
	if len(password) < utils.MinPasswordLength {
		fields["password"] = fmt.Sprintf("Password must be at least %d characters.", utils.MinPasswordLength)
	}
	if len(fields) > 0 {
		return nil, fields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.seclog.Eventf("User registered: %s", u.Username)
	return u, nil
}

// Authenticate checks the password factor. On failure it records
// LOGIN_FAILED and returns ErrInvalidCredentials regardless of cause.
func (s *AuthService) Authenticate(ctx context.Context, username, password, ip string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logFailedLogin(ctx, uuid.Nil, username, ip)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.logFailedLogin(ctx, u.ID, username, ip)
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueOTP generates and stores a fresh code for the user, replacing
// any outstanding one, and emails it. A delivery failure is logged but
// never blocks the login flow, so the response cannot leak whether the
// send succeeded.
func (s *AuthService) IssueOTP(ctx context.Context, user *models.User) (string, error) {
	code, err := utils.GenerateOTPCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	if err := s.otps.Upsert(ctx, user.ID, code, s.now().UTC()); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}

	if s.email != nil {
		if err := s.email.SendOTP(user.Email, code, int(s.otpTTL.Minutes())); err != nil {
			slog.Error("otp email delivery failed", "username", user.Username, "error", err)
		}
	}

	s.seclog.Eventf("OTP generated for user: %s", user.Username)
	return code, nil
}

// VerifyOTP checks the submitted code against the user's pending one.
// On success the code is deleted (single use) and LOGIN_SUCCESS is
// recorded; the caller then establishes the session.
func (s *AuthService) VerifyOTP(ctx context.Context, userID uuid.UUID, submitted, ip string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoPendingOTP
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	otp, err := s.otps.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logFailedLogin(ctx, u.ID, u.Username, ip)
			return nil, ErrNoPendingOTP
		}
		return nil, fmt.Errorf("lookup code: %w", err)
	}

	if s.now().After(otp.CreatedAt.Add(s.otpTTL)) {
		s.logFailedLogin(ctx, u.ID, u.Username, ip)
		return nil, ErrOTPExpired
	}
	if otp.Code != submitted {
		s.logFailedLogin(ctx, u.ID, u.Username, ip)
		return nil, ErrOTPMismatch
	}

	if err := s.otps.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("consume code: %w", err)
	}

	s.audit.Record(ctx, u.ID, models.ActionLoginSuccess, ip)
	if u.IsStaff {
		s.seclog.Eventf("Admin login: %s", u.Username)
	} else {
		s.seclog.Eventf("User login: %s", u.Username)
	}
	return u, nil
}

// UpdateProfile changes the account email.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, email string) (*models.User, error) {
	if !utils.IsValidEmail(email) {
		return nil, ValidationErrors{"email": "Enter a valid email address."}
	}
	if err := s.users.UpdateEmail(ctx, userID, email); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.seclog.Eventf("Profile updated by %s", u.Username)
	return u, nil
}

// ChangePassword verifies the current password before setting the new
// one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if len(next) < utils.MinPasswordLength {
		return ValidationErrors{"new_password": fmt.Sprintf("Password must be at least %d characters.", utils.MinPasswordLength)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return err
	}
	s.seclog.Eventf("Password changed by %s", u.Username)
	return nil
}

// GetUser fetches a user by id for profile display.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) logFailedLogin(ctx context.Context, userID uuid.UUID, username, ip string) {
	s.audit.Record(ctx, userID, models.ActionLoginFailed, ip)
	s.seclog.Eventf("FAILED LOGIN – username=%s", username)
}

// SetClock overrides the time source. Tests only.
func (s *AuthService) SetClock(now func() time.Time) { s.now = now }
