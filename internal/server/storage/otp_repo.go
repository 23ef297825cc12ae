package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"courtbook/pkg/models"
)

// OTPRepository holds the single pending code per user. Issuing again
// overwrites the previous row (last-issued-wins), which invalidates an
// older code even if it has not yet expired.
type OTPRepository struct {
	db *DB
}

func NewOTPRepository(db *DB) *OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Upsert(ctx context.Context, userID uuid.UUID, code string, createdAt time.Time) error {
	query := r.db.Rebind(`
		INSERT INTO one_time_passwords (user_id, code, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET code = excluded.code, created_at = excluded.created_at
	`)
	_, err := r.db.ExecContext(ctx, query, userID, code, createdAt)
	return err
}

func (r *OTPRepository) Get(ctx context.Context, userID uuid.UUID) (*models.OneTimePassword, error) {
	var otp models.OneTimePassword
	query := r.db.Rebind(`SELECT * FROM one_time_passwords WHERE user_id = ?`)
	if err := r.db.GetContext(ctx, &otp, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &otp, nil
}

// Delete removes the pending code, making it single use.
func (r *OTPRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM one_time_passwords WHERE user_id = ?`)
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// DeleteExpired purges codes older than the given lifetime. Expiry is
// checked lazily at verification time; this exists for housekeeping.
func (r *OTPRepository) DeleteExpired(ctx context.Context, ttl time.Duration, now time.Time) error {
	query := r.db.Rebind(`DELETE FROM one_time_passwords WHERE created_at < ?`)
	_, err := r.db.ExecContext(ctx, query, now.Add(-ttl))
	return err
}
