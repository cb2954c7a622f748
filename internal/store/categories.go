package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/sladica/internal/model"
)

const categoryColumns = `id, name, image, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }, c *model.Category) error {
	return row.Scan(&c.ID, &c.Name, &c.Image, &c.CreatedAt, &c.UpdatedAt)
}

// CreateCategory creates a new category.
func CreateCategory(ctx context.Context, db *sql.DB, name string, image *string) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, image) VALUES (?, ?)`,
		name, image,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID with its items attached.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	c := &model.Category{}
	err := scanCategory(db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id,
	), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}

	items, err := listItemsWhere(ctx, db, `WHERE category_id = ?`, id)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	c.Items = items
	return c, nil
}

// ListCategories returns all categories in insertion order, each with its items.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	categories, err := listCategoriesOnly(ctx, db)
	if err != nil {
		return nil, err
	}

	items, err := listItemsWhere(ctx, db, ``)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[int64][]model.Item)
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}
	for i := range categories {
		categories[i].Items = byCategory[categories[i].ID]
		if categories[i].Items == nil {
			categories[i].Items = []model.Item{}
		}
	}
	return categories, nil
}

func listCategoriesOnly(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory applies the supplied fields of in; nil fields are left unchanged.
func UpdateCategory(ctx context.Context, db *sql.DB, id int64, in model.CategoryInput) error {
	var p patch
	if in.Name != nil {
		p.set("name", *in.Name)
	}
	if in.Image != nil {
		p.set("image", *in.Image)
	}
	return p.exec(ctx, db, "categories", "id = ?", id)
}

// DeleteCategory deletes a category. Its items are left in place.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	return deleteRow(ctx, db, "categories", "id = ?", id)
}
