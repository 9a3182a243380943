// Package validation provides the predicates used to check form input.
package validation

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// String reports whether the trimmed value has between min and max runes.
// A min <= 0 is treated as 1; a max <= 0 leaves the length unbounded.
func String(value string, min, max int) bool {
	if min <= 0 {
		min = 1
	}
	tag := "min=" + strconv.Itoa(min)
	if max > 0 {
		tag += ",max=" + strconv.Itoa(max)
	}
	return validate.Var(strings.TrimSpace(value), tag) == nil
}

// Required reports whether value is non-empty after trimming.
func Required(value string) bool {
	return validate.Var(strings.TrimSpace(value), "required") == nil
}

// Email reports whether value is a syntactically valid email address.
func Email(value string) bool {
	return validate.Var(strings.TrimSpace(value), "required,email") == nil
}

// Match reports whether both values are equal after trimming.
func Match(a, b string) bool {
	return validate.VarWithValue(strings.TrimSpace(a), strings.TrimSpace(b), "eqfield") == nil
}

// Errors maps a form field to its message.
type Errors map[string]string

func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Empty() bool { return len(e) == 0 }
