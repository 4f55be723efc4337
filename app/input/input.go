// Package input parses the raw text typed at the console into field values.
// A blank string always means "not provided".
package input

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mytheresa/northwind-console/models"
	"github.com/shopspring/decimal"
)

// Blank reports whether s holds nothing but whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ID parses a required record identity.
func ID(field, s string) (uint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, models.NewValidationError(field, "", "is required")
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, models.NewValidationError(field, s, "must be a positive whole number")
	}
	return uint(n), nil
}

// OptionalID parses an identity that may be left blank.
func OptionalID(field, s string) (*uint, error) {
	if Blank(s) {
		return nil, nil
	}
	n, err := ID(field, s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// OptionalDecimal parses a fixed-point amount that may be left blank. The
// amount must fit a column with scale fractional digits whose magnitude stays
// below limit.
func OptionalDecimal(field, s string, scale int32, limit decimal.Decimal) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, models.NewValidationError(field, s, "must be a decimal number")
	}
	if d.Abs().GreaterThanOrEqual(limit) {
		largest := limit.Sub(decimal.New(1, -scale)).StringFixed(scale)
		return decimal.NullDecimal{}, models.NewValidationError(field, s, fmt.Sprintf("must be between -%s and %s", largest, largest))
	}
	if !d.Equal(d.Truncate(scale)) {
		return decimal.NullDecimal{}, models.NewValidationError(field, s, fmt.Sprintf("must have at most %d decimal places", scale))
	}
	return decimal.NewNullDecimal(d), nil
}

// OptionalPrice parses a unit price that may be left blank.
func OptionalPrice(field, s string) (decimal.NullDecimal, error) {
	return OptionalDecimal(field, s, models.UnitPriceScale, models.UnitPriceLimit)
}

// OptionalInt16 parses a small whole number that may be left blank.
func OptionalInt16(field, s string) (*int16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 16)
	if err != nil {
		return nil, models.NewValidationError(field, s, fmt.Sprintf("must be a whole number between %d and %d", -1<<15, 1<<15-1))
	}
	v := int16(n)
	return &v, nil
}

// Text trims s and returns nil when nothing is left.
func Text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// OptionalText is Text that also rejects more than max characters.
func OptionalText(field, s string, max int) (*string, error) {
	t := Text(s)
	if t != nil && utf8.RuneCountInString(*t) > max {
		return nil, models.NewValidationError(field, *t, fmt.Sprintf("must be at most %d characters", max))
	}
	return t, nil
}

// YesNo is true only for "y", ignoring case and surrounding space.
func YesNo(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "y")
}
