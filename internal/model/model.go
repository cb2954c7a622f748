// Package model defines the menu records and the partial field sets used to
// create and update them.
package model

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Null is a nullable value in a patch. A nil *Null means the field was not
// supplied; a Null with Valid false clears the column.
type Null[T any] = sql.Null[T]

// Set returns a patch value that sets the field to v.
func Set[T any](v T) *Null[T] {
	return &Null[T]{V: v, Valid: true}
}

// Clear returns a patch value that sets the field to NULL.
func Clear[T any]() *Null[T] {
	return &Null[T]{}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
