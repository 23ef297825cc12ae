package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSecurityLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "security.log")

	l, err := NewSecurityLog(path)
	if err != nil {
		t.Fatalf("NewSecurityLog: %v", err)
	}

	l.Eventf("User login: %s", "alice")
	l.Eventf("FAILED LOGIN – username=%s", "ghost")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "User login: alice") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "FAILED LOGIN – username=ghost") {
		t.Errorf("second line = %q", lines[1])
	}

	// Reopening appends rather than truncating.
	l2, err := NewSecurityLog(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	l2.Eventf("Admin login: %s", "root")
	l2.Close()

	data, _ = os.ReadFile(path)
	if got := len(strings.Split(strings.TrimSpace(string(data)), "\n")); got != 3 {
		t.Errorf("after reopen got %d lines, want 3", got)
	}
}

func TestSecurityLogNilReceiver(t *testing.T) {
	var l *SecurityLog
	l.Eventf("should not panic")
	if err := l.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestValidationErrorsString(t *testing.T) {
	v := ValidationErrors{
		"booking_time": "Select a valid time slot.",
		"booking_date": "Enter a valid date (YYYY-MM-DD).",
	}
	want := "booking_date: Enter a valid date (YYYY-MM-DD).; booking_time: Select a valid time slot."
	if got := v.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
