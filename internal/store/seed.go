package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/erazemk/sladica/internal/model"
)

var seedCategories = []struct{ name, image string }{
	{"crepe", "category_crepe.jpg"},
	{"mighty crepe", "category_mighty_crepe.jpg"},
	{"Bubble Waffle", "category_bubble_waffle.jpg"},
	{"Circle Waffle", "category_circle_waffle.jpg"},
	{"Donuts Waffle", "category_donuts_waffle.jpg"},
	{"Square Waffle", "category_square_waffle.jpg"},
	{"Stick Waffle", "category_stick_waffle.jpg"},
	{"Mini Pancake Balls", "category_mini_pancake_balls.jpg"},
	{"Pancake", "category_pancake.jpg"},
	{"small Pancake", "category_small_pancake.jpg"},
	{"Cups", "category_cups.jpg"},
	{"Merry cream cone", "category_merry_cream_cone.jpg"},
	{"Merry cream cup", "category_merry_cream_cup.jpg"},
	{"Desserts", "category_desserts.jpg"},
	{"Intab Cake", "category_intab_cake.jpg"},
	{"Mou", "category_mou.jpg"},
	{"Profiterole", "category_profiterole.jpg"},
	{"Fettuccine", "category_fettuccine.jpg"},
	{"Water", "category_water.jpg"},
	{"Gym Items", "category_gym_items.jpg"},
	{"قشطوطة", "category_kashtota.jpg"},
}

// seedItems refer to seedCategories by position (1-based).
var seedItems = []struct {
	category    int
	name, image string
	description string
	onSale      bool
}{
	{1, "Classic Crepe", "crepe_nutella.jpg", "A delicious classic crepe with your choice of filling.", false},
	{3, "Bubble Waffle Special", "crepe_oreo.jpg", "Our famous bubble waffle topped with chocolate and ice cream.", true},
	{5, "Donuts Waffle Combo", "crepe_white.jpg", "Sweet donut waffle served with a scoop of ice cream.", false},
	{8, "Mini Pancake Balls", "lotus_crepe.jpg", "Bite-sized pancake balls, perfect for snacking.", true},
	{12, "Merry Cream Cone", "mix_flavors_circle_waffle.jpg", "Creamy ice cream cone topped with sprinkles.", false},
	{15, "Intab Cake Slice", "mix_flavors_donuts_waffle.jpg", "A slice of our signature Intab cake.", true},
}

var seedConstants = []struct{ key, value string }{
	{model.KeyInstagramURL, "https://www.instagram.com/pate.cream"},
	{model.KeyFacebookURL, "https://www.facebook.com/Patecream/"},
	{model.KeyWhatsAppURL, "https://wa.me/71881897"},
	{model.KeyFirstFlavor, "Chocolate"},
	{model.KeySecondFlavor, "Vanilla"},
}

// SeedResult counts the rows inserted by SeedMenu.
type SeedResult struct {
	Categories int
	Items      int
	Constants  int
}

// SeedMenu inserts the demo menu. Categories and items are only seeded into
// an empty menu; constants are inserted when their key is missing, so the
// call is safe to repeat.
func SeedMenu(ctx context.Context, db *sql.DB) (*SeedResult, error) {
	res := &SeedResult{}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}

	if count == 0 {
		ids := make([]int64, len(seedCategories))
		for i, c := range seedCategories {
			image := c.image
			created, err := CreateCategory(ctx, db, c.name, &image)
			if err != nil {
				return nil, fmt.Errorf("seeding category %q: %w", c.name, err)
			}
			ids[i] = created.ID
			res.Categories++
		}

		price := decimal.NewFromInt(300000)
		salePrice := decimal.NewFromInt(200000)
		for _, it := range seedItems {
			n := NewItem{
				Name:        it.name,
				Description: model.Ptr(it.description),
				Price:       price,
				IsSale:      it.onSale,
				CategoryID:  ids[it.category-1],
				Image:       model.Ptr(it.image),
			}
			if it.onSale {
				n.SalePrice = decimal.NewNullDecimal(salePrice)
			}
			if _, err := CreateItem(ctx, db, n); err != nil {
				return nil, fmt.Errorf("seeding item %q: %w", it.name, err)
			}
			res.Items++
		}
	}

	for _, c := range seedConstants {
		result, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO menu_constants (key_name, key_value) VALUES (?, ?)`,
			c.key, c.value,
		)
		if err != nil {
			return nil, fmt.Errorf("seeding constant %q: %w", c.key, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			res.Constants++
		}
	}

	return res, nil
}
