package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"courtbook/internal/server/storage"
)

// TestDB wraps an in-memory SQLite database carrying the production
// schema, so repository and service tests run without a server.
type TestDB struct {
	DB *sqlx.DB
	t  *testing.T
}

// GetTestDB opens a fresh in-memory database with the schema applied.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	sqlxDB, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// One connection: each :memory: connection is its own database, and
	// a single writer avoids SQLITE_BUSY under concurrent test traffic.
	sqlxDB.SetMaxOpenConns(1)

	db := &storage.DB{DB: sqlxDB}
	if err := db.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	tdb := &TestDB{DB: sqlxDB, t: t}
	t.Cleanup(tdb.Close)
	return tdb
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// CleanupTable deletes all rows from a table. Use with caution.
func (tdb *TestDB) CleanupTable(ctx context.Context, table string) {
	tdb.t.Helper()
	_, err := tdb.DB.ExecContext(ctx, "DELETE FROM "+table)
	if err != nil {
		tdb.t.Logf("Warning: failed to cleanup table %s: %v", table, err)
	}
}

// Exec executes a query and fails the test on error
func (tdb *TestDB) Exec(ctx context.Context, query string, args ...interface{}) {
	tdb.t.Helper()
	_, err := tdb.DB.ExecContext(ctx, query, args...)
	if err != nil {
		tdb.t.Fatalf("Failed to execute query: %v", err)
	}
}

// StorageDB returns a storage.DB wrapper for use with repositories
func (tdb *TestDB) StorageDB() *storage.DB {
	return &storage.DB{DB: tdb.DB}
}

// Repositories creates all standard repositories for testing
func (tdb *TestDB) Repositories() *TestRepositories {
	db := tdb.StorageDB()
	return &TestRepositories{
		Users:    storage.NewUserRepository(db),
		Courts:   storage.NewCourtRepository(db),
		Bookings: storage.NewBookingRepository(db),
		OTPs:     storage.NewOTPRepository(db),
		Audit:    storage.NewAuditRepository(db),
	}
}

// TestRepositories contains all repositories for testing
type TestRepositories struct {
	Users    *storage.UserRepository
	Courts   *storage.CourtRepository
	Bookings *storage.BookingRepository
	OTPs     *storage.OTPRepository
	Audit    *storage.AuditRepository
}
