package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldError reports a field value that breaks a model rule.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErr(field, format string, args ...interface{}) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func checkEnum(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fieldErr(field, "must be one of %s, got %q", strings.Join(allowed, ", "), value)
}

func checkOptionalEnum(field string, value *string, allowed ...string) error {
	if value == nil {
		return nil
	}
	return checkEnum(field, *value, allowed...)
}

func requireString(field string, v *string) error {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fieldErr(field, "is required")
	}
	return nil
}

func requireID(field string, v *uint) error {
	if v == nil || *v == 0 {
		return fieldErr(field, "is required")
	}
	return nil
}

func checkNonNegative(field string, v decimal.NullDecimal) error {
	if v.Valid && v.Decimal.IsNegative() {
		return fieldErr(field, "must not be negative")
	}
	return nil
}

func checkDateOrder(startField string, start, end *Date) error {
	if start != nil && end != nil && end.Before(start.Time) {
		return fieldErr(startField, "end date %s is before start date %s", end, start)
	}
	return nil
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// cleanString trims s and returns nil for blank values.
func cleanString(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// upperString is cleanString plus upper-casing, for enum-valued optional fields.
func upperString(s *string) *string {
	s = cleanString(s)
	if s == nil {
		return nil
	}
	u := strings.ToUpper(*s)
	return &u
}

func cleanID(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
