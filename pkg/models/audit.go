package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction identifies a security-relevant event.
type AuditAction string

const (
	ActionLoginSuccess  AuditAction = "LOGIN_SUCCESS"
	ActionLoginFailed   AuditAction = "LOGIN_FAILED"
	ActionBookingCreate AuditAction = "BOOKING_CREATE"
	ActionBookingUpdate AuditAction = "BOOKING_UPDATE"
	ActionBookingDelete AuditAction = "BOOKING_DELETE"
	ActionUnauthorized  AuditAction = "UNAUTHORIZED"
)

// AuditEntry is append-only; the user reference is nullable so entries
// survive user deletion.
type AuditEntry struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	UserID    uuid.NullUUID `json:"user_id" db:"user_id"`
	Action    AuditAction   `json:"action" db:"action"`
	IPAddress *string       `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt time.Time     `json:"timestamp" db:"created_at"`
}
