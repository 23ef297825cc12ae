package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	userID := uuid.New()
	secret := "test-secret"

	token, err := GenerateJWT(userID, "alice", true, PurposeSession, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token, secret)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want alice", claims.Username)
	}
	if !claims.Staff {
		t.Error("Staff flag lost")
	}
	if claims.Purpose != PurposeSession {
		t.Errorf("Purpose = %q, want %q", claims.Purpose, PurposeSession)
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "alice", false, PurposeSession, "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ValidateJWT(token, "secret-b"); err == nil {
		t.Error("ValidateJWT accepted a token signed with a different secret")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "alice", false, PurposeSession, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ValidateJWT(token, "secret"); err == nil {
		t.Error("ValidateJWT accepted an expired token")
	}
}

func TestPendingAndSessionPurposesDiffer(t *testing.T) {
	pending, err := GenerateJWT(uuid.New(), "alice", false, PurposeOTP, "secret", time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ValidateJWT(pending, "secret")
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.Purpose == PurposeSession {
		t.Error("pending token carries the session purpose")
	}
}
