package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !CheckPassword(hash, "correct horse") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Error("expected wrong password to fail")
	}
	if CheckPassword("", "correct horse") {
		t.Error("expected empty hash to never match")
	}
}

func TestGeneratePassword(t *testing.T) {
	a, err := GeneratePassword(16)
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if len(a) != 16 {
		t.Errorf("expected 16 chars, got %d", len(a))
	}
	b, _ := GeneratePassword(16)
	if a == b {
		t.Error("expected different passwords")
	}
}
