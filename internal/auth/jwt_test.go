package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken(secret, 1, "admin@example.com", 0)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token.Value == "" || token.ID == "" {
		t.Fatal("expected non-empty token and ID")
	}

	claims, err := ValidateToken(secret, token.Value)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.AdminID != 1 {
		t.Errorf("expected admin_id 1, got %d", claims.AdminID)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("expected email 'admin@example.com', got %q", claims.Email)
	}
	if claims.ID != token.ID {
		t.Errorf("expected JTI %q, got %q", token.ID, claims.ID)
	}
}

func TestTokensHaveUniqueIDs(t *testing.T) {
	a, _ := GenerateToken("secret", 1, "a@example.com", time.Hour)
	b, _ := GenerateToken("secret", 1, "a@example.com", time.Hour)
	if a.ID == b.ID {
		t.Error("expected distinct JTIs for consecutive logins")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", 1, "admin@example.com", time.Hour)

	_, err := ValidateToken("secret2", token.Value)
	if err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	_, err := ValidateToken("secret", "not-a-token")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, _ := GenerateToken("secret", 1, "admin@example.com", time.Nanosecond)
	time.Sleep(1100 * time.Millisecond)

	if _, err := ValidateToken("secret", token.Value); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestTokenExpiry(t *testing.T) {
	secret := "test"
	token, _ := GenerateToken(secret, 1, "test@example.com", 0)
	claims, _ := ValidateToken(secret, token.Value)

	expiresAt := claims.ExpiresAt.Time
	expectedExpiry := time.Now().Add(TokenExpiry)

	// Should be within a few seconds.
	diff := expectedExpiry.Sub(expiresAt)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
	if d := token.ExpiresAt.Sub(expiresAt); d < 0 || d >= time.Second {
		t.Errorf("token.ExpiresAt %v does not match claim %v", token.ExpiresAt, expiresAt)
	}
}
