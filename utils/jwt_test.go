package utils

import (
	"testing"
	"time"

	"github.com/modentca/modentca-api/models"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken(42, "parent@example.com", models.RoleHealthCare, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "parent@example.com" {
		t.Errorf("Username = %q", claims.Username)
	}
	if claims.Role != models.RoleHealthCare {
		t.Errorf("Role = %q, want %q", claims.Role, models.RoleHealthCare)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Error("token should carry a future expiry")
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken(7, "parent@example.com", models.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(token + "x"); err == nil {
		t.Error("tampered token should not parse")
	}
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Error("garbage token should not parse")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken(7, "parent@example.com", models.RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(token); err == nil {
		t.Error("expired token should not parse")
	}
}
