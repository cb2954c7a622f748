package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestAdminJSONHidesSecrets(t *testing.T) {
	a := Admin{ID: 1, Name: "Super Admin", Email: "a@b.c", PasswordHash: "hash", TokenID: Ptr("jti")}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	if strings.Contains(s, "hash") || strings.Contains(s, "jti") {
		t.Errorf("admin JSON leaks secrets: %s", s)
	}
}

func TestItemPriceRendersAsNumber(t *testing.T) {
	item := Item{Name: "Crepe", Price: decimal.RequireFromString("12.50")}
	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"price":12.5`) {
		t.Errorf("expected numeric price, got %s", data)
	}
	if !strings.Contains(string(data), `"sale_price":null`) {
		t.Errorf("expected null sale_price, got %s", data)
	}
}
