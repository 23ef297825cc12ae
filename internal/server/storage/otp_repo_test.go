package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtbook/internal/server/storage"
	"courtbook/internal/testutil"
)

func TestOTPUpsertOverwrites(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	ctx := context.Background()
	repos := tdb.Repositories()

	alice := tdb.CreateTestUser(ctx, "alice", false)
	t0 := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	if err := repos.OTPs.Upsert(ctx, alice.ID, "111111", t0); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	// Re-issuing replaces the row rather than adding a second code.
	if err := repos.OTPs.Upsert(ctx, alice.ID, "222222", t0.Add(time.Minute)); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	otp, err := repos.OTPs.Get(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if otp.Code != "222222" {
		t.Errorf("Code = %q, want the re-issued code", otp.Code)
	}
	if !otp.CreatedAt.Equal(t0.Add(time.Minute)) {
		t.Errorf("CreatedAt = %v, want the re-issue time", otp.CreatedAt)
	}
}

func TestOTPDelete(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	ctx := context.Background()
	repos := tdb.Repositories()

	alice := tdb.CreateTestUser(ctx, "alice", false)

	if _, err := repos.OTPs.Get(ctx, alice.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get before issue: got %v, want ErrNotFound", err)
	}

	if err := repos.OTPs.Upsert(ctx, alice.ID, "123456", time.Now().UTC()); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repos.OTPs.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repos.OTPs.Get(ctx, alice.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
}

func TestOTPDeleteExpired(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	ctx := context.Background()
	repos := tdb.Repositories()

	alice := tdb.CreateTestUser(ctx, "alice", false)
	bob := tdb.CreateTestUser(ctx, "bob", false)

	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	ttl := 5 * time.Minute

	if err := repos.OTPs.Upsert(ctx, alice.ID, "111111", now.Add(-10*time.Minute)); err != nil {
		t.Fatalf("Upsert stale: %v", err)
	}
	if err := repos.OTPs.Upsert(ctx, bob.ID, "222222", now.Add(-time.Minute)); err != nil {
		t.Fatalf("Upsert fresh: %v", err)
	}

	if err := repos.OTPs.DeleteExpired(ctx, ttl, now); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}

	if _, err := repos.OTPs.Get(ctx, alice.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("stale code survived cleanup: %v", err)
	}
	if _, err := repos.OTPs.Get(ctx, bob.ID); err != nil {
		t.Errorf("fresh code removed by cleanup: %v", err)
	}
}
