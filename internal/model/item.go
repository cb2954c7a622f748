package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a single menu entry belonging to a category.
type Item struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	IsSale      bool                `json:"is_sale"`
	SalePrice   decimal.NullDecimal `json:"sale_price"`
	CategoryID  int64               `json:"category_id"`
	Image       *string             `json:"image"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Joined (not always populated).
	Category *Category `json:"category,omitempty"`
}

// ItemInput is the field set accepted on create and update. Nil fields
// are left unchanged on update.
type ItemInput struct {
	Name        *string                `json:"name" validate:"omitempty,max=255"`
	Description *Null[string]          `json:"description"`
	Price       *decimal.Decimal       `json:"price" validate:"omitempty,gte=0"`
	IsSale      *bool                  `json:"is_sale"`
	SalePrice   *Null[decimal.Decimal] `json:"sale_price" validate:"omitempty,gte=0"`
	CategoryID  *int64                 `json:"category_id"`
	Image       *string                `json:"image"`
}

// Item image storage directory, relative to the storage root.
const ItemImageDir = "images/items"
