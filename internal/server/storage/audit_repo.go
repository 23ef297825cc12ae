package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"courtbook/pkg/models"
)

// AuditRepository appends security-relevant events. Rows are never
// updated or deleted by the application.
type AuditRepository struct {
	db *DB
}

func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, e *models.AuditEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := r.db.Rebind(`
		INSERT INTO audit_log (id, user_id, action, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query, e.ID, e.UserID, e.Action, e.IPAddress, e.CreatedAt)
	return err
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.AuditEntry
	query := r.db.Rebind(`
		SELECT * FROM audit_log ORDER BY created_at DESC LIMIT ?
	`)
	err := r.db.SelectContext(ctx, &out, query, limit)
	return out, err
}
