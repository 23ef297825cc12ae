package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtbook/internal/server/services"
	"courtbook/internal/testutil"
	"courtbook/pkg/models"
)

const testOTPTTL = 5 * time.Minute

func newAuthService(t *testing.T) (*services.AuthService, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.GetTestDB(t)
	repos := tdb.Repositories()

	email, err := services.NewEmailService("", "noreply@test", true)
	if err != nil {
		t.Fatalf("NewEmailService: %v", err)
	}
	audit := services.NewAuditService(repos.Audit)
	svc := services.NewAuthService(repos.Users, repos.OTPs, email, audit, nil, testOTPTTL)
	return svc, tdb
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a!", "not-an-email", "short")
	var fields services.ValidationErrors
	if !errors.As(err, &fields) {
		t.Fatalf("got %v, want ValidationErrors", err)
	}
	for _, key := range []string{"username", "email", "password"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing validation error for %q: %v", key, fields)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "alice", "other@example.com", "hunter2hunter2")
	if !errors.Is(err, services.ErrUsernameTaken) {
		t.Fatalf("got %v, want ErrUsernameTaken", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, tdb := newAuthService(t)
	ctx := context.Background()

	tdb.CreateTestUser(ctx, "alice", false)

	u, err := svc.Authenticate(ctx, "alice", testutil.TestPassword, "203.0.113.1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("Username = %q", u.Username)
	}

	// Wrong password and unknown username fail identically.
	if _, err := svc.Authenticate(ctx, "alice", "wrong", "203.0.113.1"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", testutil.TestPassword, "203.0.113.1"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v, want ErrInvalidCredentials", err)
	}

	// Both failures leave LOGIN_FAILED audit entries.
	entries, err := tdb.Repositories().Audit.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	failed := 0
	for _, e := range entries {
		if e.Action == models.ActionLoginFailed {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("recorded %d LOGIN_FAILED entries, want 2", failed)
	}
}

func TestOTPRoundTripSingleUse(t *testing.T) {
	svc, tdb := newAuthService(t)
	ctx := context.Background()

	alice := tdb.CreateTestUser(ctx, "alice", false)

	code, err := svc.IssueOTP(ctx, alice)
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code %q has length %d", code, len(code))
	}

	u, err := svc.VerifyOTP(ctx, alice.ID, code, "203.0.113.1")
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if u.ID != alice.ID {
		t.Errorf("verified wrong user: %v", u.ID)
	}

	// The code is consumed on success.
	if _, err := svc.VerifyOTP(ctx, alice.ID, code, "203.0.113.1"); !errors.Is(err, services.ErrNoPendingOTP) {
		t.Errorf("reused code: got %v, want ErrNoPendingOTP", err)
	}

	entries, err := tdb.Repositories().Audit.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	success := false
	for _, e := range entries {
		if e.Action == models.ActionLoginSuccess && e.UserID.Valid && e.UserID.UUID == alice.ID {
			success = true
		}
	}
	if !success {
		t.Error("no LOGIN_SUCCESS audit entry after verification")
	}
}

func TestOTPExpiry(t *testing.T) {
	svc, tdb := newAuthService(t)
	ctx := context.Background()

	alice := tdb.CreateTestUser(ctx, "alice", false)

	t0 := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return t0 })

	code, err := svc.IssueOTP(ctx, alice)
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}

	// Still valid at exactly the TTL boundary.
	svc.SetClock(func() time.Time { return t0.Add(testOTPTTL) })
	if _, err := svc.VerifyOTP(ctx, alice.ID, code, ""); err != nil {
		t.Fatalf("VerifyOTP at boundary: %v", err)
	}

	// One second past the TTL it is rejected.
	code, err = svc.IssueOTP(ctx, alice)
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}
	svc.SetClock(func() time.Time { return t0.Add(testOTPTTL + time.Second) })
	if _, err := svc.VerifyOTP(ctx, alice.ID, code, ""); !errors.Is(err, services.ErrOTPExpired) {
		t.Errorf("expired code: got %v, want ErrOTPExpired", err)
	}
}

func TestOTPReissueInvalidatesPrevious(t *testing.T) {
	svc, tdb := newAuthService(t)
	ctx := context.Background()

	alice := tdb.CreateTestUser(ctx, "alice", false)

	first, err := svc.IssueOTP(ctx, alice)
	if err != nil {
		t.Fatalf("first IssueOTP: %v", err)
	}
	second, err := svc.IssueOTP(ctx, alice)
	if err != nil {
		t.Fatalf("second IssueOTP: %v", err)
	}

	if first != second {
		if _, err := svc.VerifyOTP(ctx, alice.ID, first, ""); !errors.Is(err, services.ErrOTPMismatch) {
			t.Errorf("superseded code: got %v, want ErrOTPMismatch", err)
		}
	}
	if _, err := svc.VerifyOTP(ctx, alice.ID, second, ""); err != nil {
		t.Errorf("latest code rejected: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, tdb := newAuthService(t)
	ctx := context.Background()

	alice := tdb.CreateTestUser(ctx, "alice", false)

	if err := svc.ChangePassword(ctx, alice.ID, "wrong", "new-password-1"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("wrong current password: got %v, want ErrInvalidCredentials", err)
	}

	var fields services.ValidationErrors
	if err := svc.ChangePassword(ctx, alice.ID, testutil.TestPassword, "short"); !errors.As(err, &fields) {
		t.Errorf("short new password: got %v, want ValidationErrors", err)
	}

	if err := svc.ChangePassword(ctx, alice.ID, testutil.TestPassword, "new-password-1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "new-password-1", ""); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", testutil.TestPassword, ""); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("old password still accepted: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, tdb := newAuthService(t)
	ctx := context.Background()

	alice := tdb.CreateTestUser(ctx, "alice", false)

	var fields services.ValidationErrors
	if _, err := svc.UpdateProfile(ctx, alice.ID, "not-an-email"); !errors.As(err, &fields) {
		t.Errorf("invalid email: got %v, want ValidationErrors", err)
	}

	u, err := svc.UpdateProfile(ctx, alice.ID, "fresh@example.com")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Email != "fresh@example.com" {
		t.Errorf("Email = %q", u.Email)
	}
}
