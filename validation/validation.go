package validation

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// MaxLen counts runes, not bytes, so Japanese text gets the same budget.
func MaxLen(field, value string, max int, v Violations) {
	if utf8.RuneCountInString(value) > max {
		v[field] = "too_long"
	}
}

func MinLen(field, value string, min int, v Violations) {
	if utf8.RuneCountInString(value) < min {
		v[field] = "too_short"
	}
}

// Email is a shape check only: one @ with something on both sides.
func Email(field, value string, v Violations) {
	at := strings.LastIndex(value, "@")
	if at <= 0 || at == len(value)-1 || strings.ContainsAny(value, " \t\n") {
		v[field] = "invalid_email"
	}
}

// Date accepts an empty value or a date in the given layout.
func Date(field, value, layout string, v Violations) {
	if value == "" {
		return
	}
	if _, err := time.Parse(layout, value); err != nil {
		v[field] = "invalid_date"
	}
}

// HTTPURL requires an absolute http(s) URL.
func HTTPURL(field, value string, v Violations) {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v[field] = "invalid_url"
	}
}

func PositiveID(field string, id uint, v Violations) {
	if id == 0 {
		v[field] = "required"
	}
}
