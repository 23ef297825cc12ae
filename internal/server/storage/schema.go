package storage

import "context"

// Schema uses TEXT ids (generated application-side) and plain SQL types
// so it runs unchanged on Postgres and on the SQLite test database.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	is_staff BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS courts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	sport_type TEXT NOT NULL,
	is_available BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS bookings (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	court_id TEXT NOT NULL REFERENCES courts(id) ON DELETE CASCADE,
	booking_date TEXT NOT NULL,
	booking_time TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	UNIQUE (court_id, booking_date, booking_time)
);

CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id);

CREATE TABLE IF NOT EXISTS one_time_passwords (
	user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	code TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
	action TEXT NOT NULL,
	ip_address TEXT,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
`

// EnsureSchema creates any missing tables. Idempotent.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
