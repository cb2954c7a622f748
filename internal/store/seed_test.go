package store

import (
	"context"
	"testing"

	"github.com/erazemk/sladica/internal/db"
	"github.com/erazemk/sladica/internal/model"
)

func TestSeedMenuIsRepeatable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	res, err := SeedMenu(ctx, database)
	if err != nil {
		t.Fatalf("SeedMenu: %v", err)
	}
	if res.Categories != 21 || res.Items != 6 || res.Constants != 5 {
		t.Errorf("unexpected first seed %+v", res)
	}

	res, err = SeedMenu(ctx, database)
	if err != nil {
		t.Fatalf("second SeedMenu: %v", err)
	}
	if res.Categories != 0 || res.Items != 0 || res.Constants != 0 {
		t.Errorf("second seed should insert nothing, got %+v", res)
	}

	items, _ := ListItems(ctx, database)
	for _, item := range items {
		if item.Category == nil {
			t.Errorf("seeded item %q has no category", item.Name)
		}
		if item.IsSale != item.SalePrice.Valid {
			t.Errorf("seeded item %q: is_sale=%v but sale_price valid=%v", item.Name, item.IsSale, item.SalePrice.Valid)
		}
	}

	values, _ := MenuValues(ctx, database, model.MenuKeys)
	for _, k := range model.MenuKeys {
		if values[k] == nil {
			t.Errorf("expected seeded value for %s", k)
		}
	}
}
