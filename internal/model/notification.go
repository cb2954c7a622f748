package model

import "time"

// Notification is a message shown on the menu, optionally about one item.
type Notification struct {
	ID          int64     `json:"id"`
	Message     string    `json:"message"`
	RelatedItem *int64    `json:"related_item"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined (not always populated).
	Item *Item `json:"item"`
}

// NotificationInput is the field set accepted on create and update.
type NotificationInput struct {
	Message     *string      `json:"message"`
	RelatedItem *Null[int64] `json:"related_item"`
}
