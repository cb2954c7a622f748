package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erazemk/sladica/internal/db"
	"github.com/erazemk/sladica/internal/model"
)

func createTestItem(t *testing.T, database *sql.DB, categoryID int64, name string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, NewItem{
		Name:       name,
		Price:      decimal.RequireFromString("4.50"),
		CategoryID: categoryID,
		Image:      model.Ptr("images/items/a.jpg"),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return item
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, "Crepes", nil)
	item, err := CreateItem(ctx, database, NewItem{
		Name:        "Classic Crepe",
		Description: model.Ptr("With Nutella"),
		Price:       decimal.RequireFromString("300000"),
		IsSale:      true,
		SalePrice:   decimal.NewNullDecimal(decimal.RequireFromString("200000.25")),
		CategoryID:  cat.ID,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Name != "Classic Crepe" || !got.IsSale {
		t.Errorf("unexpected item %+v", got)
	}
	if !got.Price.Equal(decimal.NewFromInt(300000)) {
		t.Errorf("expected price 300000, got %s", got.Price)
	}
	if !got.SalePrice.Valid || !got.SalePrice.Decimal.Equal(decimal.RequireFromString("200000.25")) {
		t.Errorf("expected sale price 200000.25, got %+v", got.SalePrice)
	}
	if got.Category == nil || got.Category.ID != cat.ID {
		t.Errorf("expected category %d attached, got %+v", cat.ID, got.Category)
	}
	if got.Image != nil {
		t.Errorf("expected no image, got %q", *got.Image)
	}
}

func TestGetItemNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	item, err := GetItem(context.Background(), database, 9999)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil, got %+v", item)
	}
}

func TestListItemsInInsertionOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, "Waffles", nil)
	createTestItem(t, database, cat.ID, "Zebra Waffle")
	createTestItem(t, database, cat.ID, "Apple Waffle")

	items, err := ListItems(ctx, database)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Zebra Waffle" || items[1].Name != "Apple Waffle" {
		t.Errorf("expected insertion order, got %q, %q", items[0].Name, items[1].Name)
	}
	for _, item := range items {
		if item.Category == nil || item.Category.Name != "Waffles" {
			t.Errorf("expected category attached to %q", item.Name)
		}
	}
}

func TestUpdateItemIsPartial(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, "Waffles", nil)
	item := createTestItem(t, database, cat.ID, "Old Name")

	if err := UpdateItem(ctx, database, item.ID, model.ItemInput{Name: model.Ptr("New Name")}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Name != "New Name" {
		t.Errorf("expected name 'New Name', got %q", got.Name)
	}
	if !got.Price.Equal(item.Price) {
		t.Errorf("price changed: %s -> %s", item.Price, got.Price)
	}
	if got.CategoryID != item.CategoryID {
		t.Errorf("category changed: %d -> %d", item.CategoryID, got.CategoryID)
	}
	if got.Image == nil || *got.Image != "images/items/a.jpg" {
		t.Errorf("image changed: %v", got.Image)
	}
}

func TestUpdateItemClearsNullableFields(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, "Waffles", nil)
	item, _ := CreateItem(ctx, database, NewItem{
		Name:        "Sale Waffle",
		Description: model.Ptr("tasty"),
		Price:       decimal.NewFromInt(10),
		IsSale:      true,
		SalePrice:   decimal.NewNullDecimal(decimal.NewFromInt(5)),
		CategoryID:  cat.ID,
	})

	err := UpdateItem(ctx, database, item.ID, model.ItemInput{
		Description: model.Clear[string](),
		IsSale:      model.Ptr(false),
		SalePrice:   model.Clear[decimal.Decimal](),
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Description != nil || got.IsSale || got.SalePrice.Valid {
		t.Errorf("expected cleared fields, got %+v", got)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	err := UpdateItem(context.Background(), database, 9999, model.ItemInput{Name: model.Ptr("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, "Waffles", nil)
	item := createTestItem(t, database, cat.ID, "Delete Me")
	CreateNotification(ctx, database, "about to vanish", &item.ID)

	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if got, _ := GetItem(ctx, database, item.ID); got != nil {
		t.Error("expected item to be gone")
	}
	if err := DeleteItem(ctx, database, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	// The notification survives with a dangling reference.
	notifications, _ := ListNotifications(ctx, database)
	if len(notifications) != 1 || notifications[0].Item != nil {
		t.Errorf("expected notification without item, got %+v", notifications)
	}
}

func TestLookupExists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	lookup := Lookup{DB: database}

	cat, _ := CreateCategory(ctx, database, "Waffles", nil)

	ok, err := lookup.Exists(ctx, "categories", cat.ID)
	if err != nil || !ok {
		t.Errorf("Exists(categories, %d) = %v, %v; want true", cat.ID, ok, err)
	}
	ok, err = lookup.Exists(ctx, "items", 9999)
	if err != nil || ok {
		t.Errorf("Exists(items, 9999) = %v, %v; want false", ok, err)
	}
	if _, err := lookup.Exists(ctx, "admin_users", 1); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestDeletedIDsNotReused(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, "Crepes", nil)
	last := createTestItem(t, database, cat.ID, "Last")
	note, err := CreateNotification(ctx, database, "New", &last.ID)
	if err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}

	if err := DeleteItem(ctx, database, last.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if next := createTestItem(t, database, cat.ID, "Next"); next.ID == last.ID {
		t.Fatalf("item id %d handed out again", last.ID)
	}
	got, err := GetNotification(ctx, database, note.ID)
	if err != nil {
		t.Fatalf("GetNotification: %v", err)
	}
	if got.Item != nil {
		t.Errorf("expected dangling reference to stay unresolved, got %+v", got.Item)
	}

	if err := DeleteCategory(ctx, database, cat.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if next, _ := CreateCategory(ctx, database, "Waffles", nil); next.ID == cat.ID {
		t.Errorf("category id %d handed out again", cat.ID)
	}
}
