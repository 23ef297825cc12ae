package storage_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"courtbook/internal/server/storage"
	"courtbook/internal/testutil"
	"courtbook/pkg/models"
)

func TestBookingCreateDuplicateSlot(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	ctx := context.Background()
	repos := tdb.Repositories()

	alice := tdb.CreateTestUser(ctx, "alice", false)
	bob := tdb.CreateTestUser(ctx, "bob", false)
	court := tdb.CreateTestCourt(ctx, "Court 1", models.SportBadminton, true)

	tdb.CreateTestBooking(ctx, alice.ID, court.ID, "2026-09-10", "18:00")

	err := repos.Bookings.Create(ctx, &models.Booking{
		UserID:      bob.ID,
		CourtID:     court.ID,
		BookingDate: "2026-09-10",
		BookingTime: "18:00",
	})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("duplicate slot: got %v, want ErrConflict", err)
	}

	// A different slot on the same court is fine.
	if err := repos.Bookings.Create(ctx, &models.Booking{
		UserID:      bob.ID,
		CourtID:     court.ID,
		BookingDate: "2026-09-10",
		BookingTime: "19:00",
	}); err != nil {
		t.Fatalf("adjacent slot: %v", err)
	}
}

func TestBookingConcurrentCreateOneWinner(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	ctx := context.Background()
	repos := tdb.Repositories()

	court := tdb.CreateTestCourt(ctx, "Court 1", models.SportTennis, true)

	const racers = 8
	users := make([]*models.User, racers)
	for i := range users {
		users[i] = tdb.CreateTestUser(ctx, "racer-"+uuid.New().String()[:8], false)
	}

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repos.Bookings.Create(ctx, &models.Booking{
				UserID:      users[i].ID,
				CourtID:     court.ID,
				BookingDate: "2026-09-10",
				BookingTime: "10:00",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, storage.ErrConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("%d inserts won the race, want exactly 1", winners)
	}
}

func TestBookingOwnerScoping(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	ctx := context.Background()
	repos := tdb.Repositories()

	alice := tdb.CreateTestUser(ctx, "alice", false)
	bob := tdb.CreateTestUser(ctx, "bob", false)
	court := tdb.CreateTestCourt(ctx, "Court 1", models.SportBadminton, true)
	b := tdb.CreateTestBooking(ctx, alice.ID, court.ID, "2026-09-10", "18:00")

	// Another user's booking is reported as not found, not forbidden.
	if _, err := repos.Bookings.GetForUser(ctx, b.ID, bob.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetForUser as non-owner: got %v, want ErrNotFound", err)
	}
	if err := repos.Bookings.DeleteForUser(ctx, b.ID, bob.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteForUser as non-owner: got %v, want ErrNotFound", err)
	}

	got, err := repos.Bookings.GetForUser(ctx, b.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetForUser as owner: %v", err)
	}
	if got.CourtID != court.ID {
		t.Errorf("CourtID = %v, want %v", got.CourtID, court.ID)
	}

	if err := repos.Bookings.DeleteForUser(ctx, b.ID, alice.ID); err != nil {
		t.Fatalf("DeleteForUser as owner: %v", err)
	}
	if _, err := repos.Bookings.GetForUser(ctx, b.ID, alice.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("booking still present after delete: %v", err)
	}
}

func TestBookingUpdateOntoOccupiedSlot(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	ctx := context.Background()
	repos := tdb.Repositories()

	alice := tdb.CreateTestUser(ctx, "alice", false)
	court := tdb.CreateTestCourt(ctx, "Court 1", models.SportBadminton, true)

	tdb.CreateTestBooking(ctx, alice.ID, court.ID, "2026-09-10", "18:00")
	mine := tdb.CreateTestBooking(ctx, alice.ID, court.ID, "2026-09-10", "19:00")

	mine.BookingTime = "18:00"
	if err := repos.Bookings.Update(ctx, mine); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("update onto occupied slot: got %v, want ErrConflict", err)
	}

	mine.BookingTime = "20:00"
	if err := repos.Bookings.Update(ctx, mine); err != nil {
		t.Fatalf("update onto free slot: %v", err)
	}
}

func TestSlotTakenExcludesEditedBooking(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	ctx := context.Background()
	repos := tdb.Repositories()

	alice := tdb.CreateTestUser(ctx, "alice", false)
	court := tdb.CreateTestCourt(ctx, "Court 1", models.SportBadminton, true)
	b := tdb.CreateTestBooking(ctx, alice.ID, court.ID, "2026-09-10", "18:00")

	taken, err := repos.Bookings.SlotTaken(ctx, court.ID, "2026-09-10", "18:00", uuid.Nil)
	if err != nil {
		t.Fatalf("SlotTaken: %v", err)
	}
	if !taken {
		t.Error("occupied slot reported free")
	}

	// Excluding the booking under edit frees its own slot.
	taken, err = repos.Bookings.SlotTaken(ctx, court.ID, "2026-09-10", "18:00", b.ID)
	if err != nil {
		t.Fatalf("SlotTaken with exclude: %v", err)
	}
	if taken {
		t.Error("slot reported taken by the booking being edited")
	}
}

func TestBookingListForUser(t *testing.T) {
	tdb := testutil.GetTestDB(t)
	ctx := context.Background()
	repos := tdb.Repositories()

	alice := tdb.CreateTestUser(ctx, "alice", false)
	bob := tdb.CreateTestUser(ctx, "bob", false)
	court := tdb.CreateTestCourt(ctx, "Center Court", models.SportPickleball, true)

	tdb.CreateTestBooking(ctx, alice.ID, court.ID, "2026-09-11", "09:00")
	tdb.CreateTestBooking(ctx, alice.ID, court.ID, "2026-09-10", "18:00")
	tdb.CreateTestBooking(ctx, bob.ID, court.ID, "2026-09-10", "08:00")

	list, err := repos.Bookings.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d bookings, want 2", len(list))
	}
	// Soonest first.
	if list[0].BookingDate != "2026-09-10" || list[1].BookingDate != "2026-09-11" {
		t.Errorf("wrong order: %s then %s", list[0].BookingDate, list[1].BookingDate)
	}
	if list[0].CourtName != "Center Court" || list[0].SportType != models.SportPickleball {
		t.Errorf("court join missing: %+v", list[0])
	}
}
