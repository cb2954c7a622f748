// Package validate checks request field sets against declarative per-field
// rules and collects every violation into one report.
package validate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Lookup reports whether a row with the given id exists in table.
type Lookup interface {
	Exists(ctx context.Context, table string, id int64) (bool, error)
}

// Validator runs struct-tag rules and foreign-key checks.
type Validator struct {
	v      *validator.Validate
	lookup Lookup
}

// New creates a Validator that resolves foreign keys through lookup.
func New(lookup Lookup) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Money values are compared as numbers; NULL patch values are skipped.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d := field.Interface().(decimal.Decimal)
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		switch n := field.Interface().(type) {
		case sql.Null[decimal.Decimal]:
			if n.Valid {
				f, _ := n.V.Float64()
				return f
			}
		case sql.Null[string]:
			if n.Valid {
				return n.V
			}
		case sql.Null[int64]:
			if n.Valid {
				return n.V
			}
		}
		return nil
	}, sql.Null[decimal.Decimal]{}, sql.Null[string]{}, sql.Null[int64]{})

	return &Validator{v: v, lookup: lookup}
}

// Struct checks s against its validate tags and adds a message to errs for
// each violation.
func (v *Validator) Struct(s any, errs Errors) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating %T: %w", s, err)
	}
	for _, fe := range verrs {
		if errs.Has(fe.Field()) {
			continue
		}
		errs.Add(fe.Field(), message(fe))
	}
	return nil
}

// Exists adds a violation for field when id does not resolve to a row in table.
func (v *Validator) Exists(ctx context.Context, errs Errors, field, table string, id int64) error {
	ok, err := v.lookup.Exists(ctx, table, id)
	if err != nil {
		return fmt.Errorf("checking %s: %w", field, err)
	}
	if !ok {
		errs.Add(field, fmt.Sprintf("The selected %s is invalid.", DisplayName(field)))
	}
	return nil
}

func message(fe validator.FieldError) string {
	name := DisplayName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", name, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", name, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", name, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", name, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s field must be at least %s.", name, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}
