package testutil

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"courtbook/pkg/models"
)

// TestPassword is the plaintext behind every fixture user's hash.
const TestPassword = "sup3r-secret"

// CreateTestUser inserts a user whose password is TestPassword.
func (tdb *TestDB) CreateTestUser(ctx context.Context, username string, staff bool) *models.User {
	tdb.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		tdb.t.Fatalf("Failed to hash fixture password: %v", err)
	}

	u := &models.User{
		Username:     username,
		Email:        GenerateTestEmail(),
		PasswordHash: string(hash),
		IsStaff:      staff,
	}
	if err := tdb.Repositories().Users.Create(ctx, u); err != nil {
		tdb.t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// CreateTestCourt inserts a court.
func (tdb *TestDB) CreateTestCourt(ctx context.Context, name, sport string, available bool) *models.Court {
	tdb.t.Helper()

	c := &models.Court{
		Name:        name,
		SportType:   sport,
		IsAvailable: available,
	}
	if err := tdb.Repositories().Courts.Create(ctx, c); err != nil {
		tdb.t.Fatalf("Failed to create test court: %v", err)
	}
	return c
}

// CreateTestBooking inserts a booking for the given user, court, date,
// and slot value.
func (tdb *TestDB) CreateTestBooking(ctx context.Context, userID, courtID uuid.UUID, date, slot string) *models.Booking {
	tdb.t.Helper()

	b := &models.Booking{
		UserID:      userID,
		CourtID:     courtID,
		BookingDate: date,
		BookingTime: slot,
	}
	if err := tdb.Repositories().Bookings.Create(ctx, b); err != nil {
		tdb.t.Fatalf("Failed to create test booking: %v", err)
	}
	return b
}

// GenerateTestEmail generates a unique test email
func GenerateTestEmail() string {
	return fmt.Sprintf("test-%s@example.com", uuid.New().String()[:8])
}
