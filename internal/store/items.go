package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/erazemk/sladica/internal/model"
)

const itemColumns = `id, name, description, price, is_sale, sale_price, category_id, image, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }, item *model.Item) error {
	return row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.IsSale,
		&item.SalePrice, &item.CategoryID, &item.Image, &item.CreatedAt, &item.UpdatedAt)
}

// NewItem holds the fields of an item to be created.
type NewItem struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	IsSale      bool
	SalePrice   decimal.NullDecimal
	CategoryID  int64
	Image       *string
}

// CreateItem creates a new item.
func CreateItem(ctx context.Context, db *sql.DB, n NewItem) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, description, price, is_sale, sale_price, category_id, image)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.Name, n.Description, n.Price, n.IsSale, n.SalePrice, n.CategoryID, n.Image,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID with its category attached.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	), item)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	if err := attachCategories(ctx, db, []*model.Item{item}); err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns all items in insertion order, each with its category.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	items, err := listItemsWhere(ctx, db, ``)
	if err != nil {
		return nil, err
	}

	ptrs := make([]*model.Item, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	if err := attachCategories(ctx, db, ptrs); err != nil {
		return nil, err
	}
	return items, nil
}

func listItemsWhere(ctx context.Context, db *sql.DB, where string, args ...any) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items `+where+` ORDER BY id`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := scanItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// attachCategories sets Category on each item. Items whose category was
// deleted are left without one.
func attachCategories(ctx context.Context, db *sql.DB, items []*model.Item) error {
	if len(items) == 0 {
		return nil
	}
	categories, err := listCategoriesOnly(ctx, db)
	if err != nil {
		return err
	}
	byID := make(map[int64]*model.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	for _, item := range items {
		item.Category = byID[item.CategoryID]
	}
	return nil
}

// UpdateItem applies the supplied fields of in; nil fields are left unchanged.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, in model.ItemInput) error {
	var p patch
	if in.Name != nil {
		p.set("name", *in.Name)
	}
	if in.Description != nil {
		p.set("description", *in.Description)
	}
	if in.Price != nil {
		p.set("price", *in.Price)
	}
	if in.IsSale != nil {
		p.set("is_sale", *in.IsSale)
	}
	if in.SalePrice != nil {
		p.set("sale_price", nullDecimal(*in.SalePrice))
	}
	if in.CategoryID != nil {
		p.set("category_id", *in.CategoryID)
	}
	if in.Image != nil {
		p.set("image", *in.Image)
	}
	return p.exec(ctx, db, "items", "id = ?", id)
}

// DeleteItem deletes an item. Notifications referring to it are left in place.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	return deleteRow(ctx, db, "items", "id = ?", id)
}
