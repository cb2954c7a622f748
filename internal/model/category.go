package model

import "time"

// Category groups menu items.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined (not always populated).
	Items []Item `json:"items,omitzero"`
}

// CategoryInput is the field set accepted on create and update.
type CategoryInput struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Image *string `json:"image"`
}

// Category image storage directory, relative to the storage root.
const CategoryImageDir = "images/categories"
