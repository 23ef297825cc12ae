package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"courtbook/pkg/models"
)

type BookingRepository struct {
	db *DB
}

func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking. The UNIQUE(court_id, booking_date,
// booking_time) constraint is the last line of defense against double
// booking: when two requests race past validation, exactly one insert
// succeeds and the loser gets ErrConflict.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	query := r.db.Rebind(`
		INSERT INTO bookings (id, user_id, court_id, booking_date, booking_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.CourtID, b.BookingDate, b.BookingTime, b.CreatedAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// Update rewrites the mutable fields of an owned booking. Moving onto
// an occupied slot trips the same uniqueness constraint as Create.
func (r *BookingRepository) Update(ctx context.Context, b *models.Booking) error {
	query := r.db.Rebind(`
		UPDATE bookings
		SET court_id = ?, booking_date = ?, booking_time = ?
		WHERE id = ? AND user_id = ?
	`)
	res, err := r.db.ExecContext(ctx, query,
		b.CourtID, b.BookingDate, b.BookingTime, b.ID, b.UserID)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetForUser fetches a booking scoped to its owner. A booking that
// exists but belongs to someone else is reported as not found.
func (r *BookingRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	query := r.db.Rebind(`SELECT * FROM bookings WHERE id = ? AND user_id = ?`)
	if err := r.db.GetContext(ctx, &b, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM bookings WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForUser returns the user's bookings joined with court details,
// soonest first.
func (r *BookingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.BookingWithCourt, error) {
	var out []models.BookingWithCourt
	query := r.db.Rebind(`
		SELECT b.id, b.user_id, b.court_id, b.booking_date, b.booking_time, b.created_at,
		       c.name AS court_name, c.sport_type
		FROM bookings b
		JOIN courts c ON c.id = b.court_id
		WHERE b.user_id = ?
		ORDER BY b.booking_date, b.booking_time
	`)
	err := r.db.SelectContext(ctx, &out, query, userID)
	return out, err
}

// SlotTaken reports whether another booking already claims the same
// (court, date, time), excluding the booking being edited if any. This
// pre-check is advisory; the constraint remains authoritative.
func (r *BookingRepository) SlotTaken(ctx context.Context, courtID uuid.UUID, date, slot string, exclude uuid.UUID) (bool, error) {
	var n int
	query := r.db.Rebind(`
		SELECT COUNT(*) FROM bookings
		WHERE court_id = ? AND booking_date = ? AND booking_time = ? AND id <> ?
	`)
	if err := r.db.GetContext(ctx, &n, query, courtID, date, slot, exclude); err != nil {
		return false, err
	}
	return n > 0, nil
}
