package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"courtbook/internal/server/storage"
	"courtbook/pkg/models"
)

// AuditService appends audit rows for security-relevant actions. The
// audit store is a secondary concern: a failed write is surfaced to the
// operational log but never rolls back or fails the business operation
// that triggered it.
type AuditService struct {
	repo *storage.AuditRepository
}

func NewAuditService(repo *storage.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record appends an entry. userID may be uuid.Nil for events with no
// known actor (failed logins for unknown usernames).
func (s *AuditService) Record(ctx context.Context, userID uuid.UUID, action models.AuditAction, ip string) {
	entry := &models.AuditEntry{
		UserID: uuid.NullUUID{UUID: userID, Valid: userID != uuid.Nil},
		Action: action,
	}
	if ip != "" {
		entry.IPAddress = &ip
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		slog.Error("audit write failed", "action", action, "error", err)
	}
}

// ListRecent returns the newest audit entries. Access control (staff
// only) is enforced at the API boundary.
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return s.repo.ListRecent(ctx, limit)
}
