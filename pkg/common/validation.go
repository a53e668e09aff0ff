package common

import (
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate   = validator.New()
	whitespace = regexp.MustCompile(`\s`)
)

// FieldErrors maps a form field to a user facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Required records msg for field when value is blank and reports whether it was present.
func (e FieldErrors) Required(field, value, msg string) bool {
	if strings.TrimSpace(value) == "" {
		e[field] = msg
		return false
	}
	return true
}

// Err returns nil when no field failed.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// IsEmail reports whether s is a well formed address.
func IsEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}

// IsDigits reports whether s, ignoring whitespace, is exactly n decimal digits.
func IsDigits(s string, n int) bool {
	s = whitespace.ReplaceAllString(s, "")
	return len(s) == n && validate.Var(s, "numeric") == nil && !strings.ContainsAny(s, "+-.")
}

// SplitList splits a comma separated list, dropping blank items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
