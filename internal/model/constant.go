package model

import "time"

// Constant is a key/value setting shown on the public menu.
type Constant struct {
	ID        int64     `json:"id"`
	KeyName   string    `json:"keyName"`
	KeyValue  *string   `json:"keyValue"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConstantInput is the field set accepted when creating a constant.
type ConstantInput struct {
	KeyName  *string       `json:"keyName" validate:"omitempty,max=255"`
	KeyValue *Null[string] `json:"keyValue"`
}

// Menu constant keys exposed by the public menu.
const (
	KeyFirstFlavor  = "merry_cream_first_flavor"
	KeySecondFlavor = "merry_cream_second_flavor"
	KeyFacebookURL  = "facebook_url"
	KeyInstagramURL = "instagram_url"
	KeyWhatsAppURL  = "whatsapp_url"
)

// MenuKeys is the fixed key set returned by the public constants listing.
var MenuKeys = []string{
	KeyFirstFlavor,
	KeySecondFlavor,
	KeyFacebookURL,
	KeyInstagramURL,
	KeyWhatsAppURL,
}
