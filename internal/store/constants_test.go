package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/sladica/internal/db"
	"github.com/erazemk/sladica/internal/model"
)

func TestCreateConstantUniqueKey(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, err := CreateConstant(ctx, database, model.KeyFacebookURL, model.Ptr("https://fb.example"))
	if err != nil {
		t.Fatalf("CreateConstant: %v", err)
	}
	if c.KeyName != model.KeyFacebookURL || c.KeyValue == nil || *c.KeyValue != "https://fb.example" {
		t.Errorf("unexpected constant %+v", c)
	}

	_, err = CreateConstant(ctx, database, model.KeyFacebookURL, nil)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate key, got %v", err)
	}
}

func TestUpdateAndDeleteConstant(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateConstant(ctx, database, "color", model.Ptr("red"))

	if err := UpdateConstant(ctx, database, "color", model.Ptr("blue")); err != nil {
		t.Fatalf("UpdateConstant: %v", err)
	}
	got, _ := GetConstant(ctx, database, "color")
	if got.KeyValue == nil || *got.KeyValue != "blue" {
		t.Errorf("expected blue, got %v", got.KeyValue)
	}

	if err := UpdateConstant(ctx, database, "color", nil); err != nil {
		t.Fatalf("UpdateConstant(nil): %v", err)
	}
	got, _ = GetConstant(ctx, database, "color")
	if got.KeyValue != nil {
		t.Errorf("expected cleared value, got %q", *got.KeyValue)
	}

	if err := UpdateConstant(ctx, database, "missing", model.Ptr("x")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := DeleteConstant(ctx, database, "color"); err != nil {
		t.Fatalf("DeleteConstant: %v", err)
	}
	if got, _ := GetConstant(ctx, database, "color"); got != nil {
		t.Error("expected constant to be deleted")
	}
	if err := DeleteConstant(ctx, database, "color"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateConstantsSkipsUnknownKeys(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateConstant(ctx, database, model.KeyFacebookURL, model.Ptr("old"))

	keys := []string{model.KeyFacebookURL, "nonexistent_key"}
	values := map[string]*string{
		model.KeyFacebookURL: model.Ptr("x"),
		"nonexistent_key":    model.Ptr("y"),
	}
	n, err := UpdateConstants(ctx, database, keys, values)
	if err != nil {
		t.Fatalf("UpdateConstants: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 updated, got %d", n)
	}

	got, _ := GetConstant(ctx, database, model.KeyFacebookURL)
	if *got.KeyValue != "x" {
		t.Errorf("expected x, got %q", *got.KeyValue)
	}
	if missing, _ := GetConstant(ctx, database, "nonexistent_key"); missing != nil {
		t.Error("bulk update must not create keys")
	}
}

func TestMenuValues(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateConstant(ctx, database, model.KeyFirstFlavor, model.Ptr("Chocolate"))
	CreateConstant(ctx, database, "unrelated", model.Ptr("ignored"))

	values, err := MenuValues(ctx, database, model.MenuKeys)
	if err != nil {
		t.Fatalf("MenuValues: %v", err)
	}
	if len(values) != len(model.MenuKeys) {
		t.Errorf("expected %d keys, got %d", len(model.MenuKeys), len(values))
	}
	if v := values[model.KeyFirstFlavor]; v == nil || *v != "Chocolate" {
		t.Errorf("unexpected first flavor %v", v)
	}
	if v, ok := values[model.KeyWhatsAppURL]; !ok || v != nil {
		t.Errorf("expected whatsapp_url present and nil, got %v (present=%v)", v, ok)
	}
	if _, ok := values["unrelated"]; ok {
		t.Error("unrelated key must not be listed")
	}
}
