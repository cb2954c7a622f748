package validate

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Errors maps a request field to every constraint it violated.
type Errors map[string][]string

// Add records a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether field already has a violation.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Require records a "required" violation for field unless ok, or the field
// already failed for another reason.
func (e Errors) Require(field string, ok bool) {
	if ok || e.Has(field) {
		return
	}
	e.Add(field, fmt.Sprintf("The %s field is required.", DisplayName(field)))
}

// Err returns e as an error, or nil if there are no violations.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Message summarizes the report in one line: the first message, plus a count
// of the rest.
func (e Errors) Message() string {
	fields := make([]string, 0, len(e))
	total := 0
	for f, msgs := range e {
		fields = append(fields, f)
		total += len(msgs)
	}
	if total == 0 {
		return ""
	}
	sort.Strings(fields)

	first := e[fields[0]][0]
	switch rest := total - 1; rest {
	case 0:
		return first
	case 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

func (e Errors) Error() string {
	return "validation failed: " + e.Message()
}

// DisplayName turns a field name such as "category_id" or "keyName" into
// the words used in messages ("category id", "key name").
func DisplayName(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case r == '_' || r == '.':
			b.WriteRune(' ')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteRune(' ')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
