package services

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SecurityLog is the append-only file of security events, one
// human-readable line per event. It is a secondary sink: writes are
// best-effort and never fail the triggering operation.
type SecurityLog struct {
	mu sync.Mutex
	f  *os.File
}

func NewSecurityLog(path string) (*SecurityLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create security log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open security log: %w", err)
	}
	return &SecurityLog{f: f}, nil
}

// Eventf appends a timestamped line. A nil receiver is a no-op so the
// sink stays optional in tests.
func (l *SecurityLog) Eventf(format string, args ...any) {
	if l == nil {
		return
	}
	line := fmt.Sprintf("%s | %s\n",
		time.Now().UTC().Format("2006-01-02 15:04:05"),
		fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.f.WriteString(line); err != nil {
		slog.Error("security log write failed", "error", err)
	}
}

func (l *SecurityLog) Close() error {
	if l == nil {
		return nil
	}
	return l.f.Close()
}
