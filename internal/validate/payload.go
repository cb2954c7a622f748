package validate

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Payload is a decoded request body: the members of a JSON object, or the
// values of a submitted form.
type Payload map[string]any

// Has reports whether key was supplied, even as null.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Filled reports whether key was supplied with a non-null value.
func (p Payload) Filled(key string) bool {
	v, ok := p.value(key)
	return ok && v != nil
}

// value returns the member for key with strings trimmed and empty strings
// turned into nil.
func (p Payload) value(key string) (any, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}
	if s, isStr := v.(string); isStr {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, true
		}
		return s, true
	}
	return v, true
}

// Reader converts payload members to typed values. A member of the wrong
// type is recorded in Errs and read as absent.
type Reader struct {
	p    Payload
	Errs Errors
}

// NewReader returns a Reader over p with an empty error report.
func NewReader(p Payload) *Reader {
	return &Reader{p: p, Errs: Errors{}}
}

func (r *Reader) fail(key, format string) {
	r.Errs.Add(key, fmt.Sprintf(format, DisplayName(key)))
}

// Require records a violation when key is missing or null.
func (r *Reader) Require(key string) {
	r.Errs.Require(key, r.p.Filled(key))
}

// NotNull records a violation when key was supplied but null. Non-nullable
// fields may be omitted from an update, not cleared.
func (r *Reader) NotNull(key string) {
	if r.p.Has(key) && !r.p.Filled(key) && !r.Errs.Has(key) {
		r.fail(key, "The %s field must not be empty.")
	}
}

// String reads a non-nullable string. Null reads as absent; see NotNull.
func (r *Reader) String(key string) *string {
	v, ok := r.p.value(key)
	if !ok {
		return nil
	}
	if v == nil {
		return nil
	}
	s, isStr := v.(string)
	if !isStr {
		r.fail(key, "The %s field must be a string.")
		return nil
	}
	return &s
}

// RawString reads a string without trimming it. An empty string reads as
// absent.
func (r *Reader) RawString(key string) *string {
	v, ok := r.p[key]
	if !ok || v == nil || v == "" {
		return nil
	}
	s, isStr := v.(string)
	if !isStr {
		r.fail(key, "The %s field must be a string.")
		return nil
	}
	return &s
}

// NullString reads a nullable string.
func (r *Reader) NullString(key string) *sql.Null[string] {
	v, ok := r.p.value(key)
	if !ok {
		return nil
	}
	if v == nil {
		return &sql.Null[string]{}
	}
	s, isStr := v.(string)
	if !isStr {
		r.fail(key, "The %s field must be a string.")
		return nil
	}
	return &sql.Null[string]{V: s, Valid: true}
}

// Decimal reads a non-nullable number.
func (r *Reader) Decimal(key string) *decimal.Decimal {
	v, ok := r.p.value(key)
	if !ok || v == nil {
		return nil
	}
	d, err := toDecimal(v)
	if err != nil {
		r.fail(key, "The %s field must be a number.")
		return nil
	}
	return &d
}

// NullDecimal reads a nullable number.
func (r *Reader) NullDecimal(key string) *sql.Null[decimal.Decimal] {
	v, ok := r.p.value(key)
	if !ok {
		return nil
	}
	if v == nil {
		return &sql.Null[decimal.Decimal]{}
	}
	d, err := toDecimal(v)
	if err != nil {
		r.fail(key, "The %s field must be a number.")
		return nil
	}
	return &sql.Null[decimal.Decimal]{V: d, Valid: true}
}

// Bool reads a boolean. Accepted forms are true, false, 1, 0, "1", "0",
// "true" and "false".
func (r *Reader) Bool(key string) *bool {
	v, ok := r.p.value(key)
	if !ok || v == nil {
		return nil
	}
	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case json.Number:
		switch t.String() {
		case "1":
			b = true
		case "0":
			b = false
		default:
			r.fail(key, "The %s field must be true or false.")
			return nil
		}
	case float64:
		if t != 0 && t != 1 {
			r.fail(key, "The %s field must be true or false.")
			return nil
		}
		b = t == 1
	case string:
		switch strings.ToLower(t) {
		case "1", "true":
			b = true
		case "0", "false":
			b = false
		default:
			r.fail(key, "The %s field must be true or false.")
			return nil
		}
	default:
		r.fail(key, "The %s field must be true or false.")
		return nil
	}
	return &b
}

// Int reads a non-nullable integer.
func (r *Reader) Int(key string) *int64 {
	v, ok := r.p.value(key)
	if !ok || v == nil {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		r.fail(key, "The %s field must be an integer.")
		return nil
	}
	return &n
}

// NullInt reads a nullable integer.
func (r *Reader) NullInt(key string) *sql.Null[int64] {
	v, ok := r.p.value(key)
	if !ok {
		return nil
	}
	if v == nil {
		return &sql.Null[int64]{}
	}
	n, err := toInt(v)
	if err != nil {
		r.fail(key, "The %s field must be an integer.")
		return nil
	}
	return &sql.Null[int64]{V: n, Valid: true}
}

// StringMap reads a non-empty object whose values are strings or null. Keys
// are returned sorted so callers apply them in a stable order.
func (r *Reader) StringMap(key string) ([]string, map[string]*string) {
	v, ok := r.p[key]
	if !ok || v == nil {
		return nil, nil
	}
	if list, isList := v.([]any); isList && len(list) == 0 {
		r.Errs.Require(key, false)
		return nil, nil
	}
	obj, isObj := v.(map[string]any)
	if !isObj {
		r.fail(key, "The %s field must be an array.")
		return nil, nil
	}
	if len(obj) == 0 {
		r.Errs.Require(key, false)
		return nil, nil
	}

	keys := make([]string, 0, len(obj))
	out := make(map[string]*string, len(obj))
	for k, raw := range obj {
		switch t := raw.(type) {
		case nil:
			out[k] = nil
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				out[k] = nil
			} else {
				out[k] = &s
			}
		default:
			r.Errs.Add(key+"."+k, fmt.Sprintf("The %s.%s field must be a string.", key, k))
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, out
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case json.Number:
		return decimal.NewFromString(t.String())
	case float64:
		return decimal.NewFromFloat(t), nil
	case string:
		return decimal.NewFromString(t)
	default:
		return decimal.Decimal{}, fmt.Errorf("not a number: %v", v)
	}
}

func toInt(v any) (int64, error) {
	switch t := v.(type) {
	case json.Number:
		return strconv.ParseInt(t.String(), 10, 64)
	case float64:
		if t != float64(int64(t)) {
			return 0, fmt.Errorf("not an integer: %v", t)
		}
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}
