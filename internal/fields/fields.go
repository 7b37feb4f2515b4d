// Package fields turns the raw fields of a vault item into ranked,
// display-ready rows, masking the values that should not be shown on screen.
package fields

import (
	"errors"
	"slices"
	"strings"
)

// Category classifies how sensitive a field is.
type Category string

const (
	CategoryPassword Category = "password"
	CategoryOTP      Category = "one-time-password"
	CategoryGeneric  Category = "generic"
)

// Display masks. The length is fixed so the mask reveals nothing about the
// value it hides.
const (
	PasswordMask = "********"
	OTPMask      = "******"
)

var (
	// ErrNoFields is returned when an item carries no field list at all.
	ErrNoFields = errors.New("no fields present")

	// ErrNoDisplayableFields is returned when no field has a value.
	ErrNoDisplayableFields = errors.New("no fields with values found")
)

// Field is one labeled datum of a vault item. A nil Value means the field
// has nothing to show or copy.
type Field struct {
	Label    string
	Value    *string
	Category Category
}

// Row is a classified field ready for display. Display is what the picker
// shows; Value is what gets copied.
type Row struct {
	Label    string
	Display  string
	Value    string
	Category Category
}

// Cells returns the table cells for the row: label and display value.
func (r Row) Cells() []string {
	return []string{r.Label, r.Display}
}

// Priority orders categories: passwords first, then one-time codes, then
// everything else.
func (c Category) Priority() int {
	switch c {
	case CategoryPassword:
		return 0
	case CategoryOTP:
		return 1
	default:
		return 2
	}
}

// Mask returns the text shown in place of value for this category.
func (c Category) Mask(value string) string {
	switch c {
	case CategoryPassword:
		return PasswordMask
	case CategoryOTP:
		return OTPMask
	default:
		return value
	}
}

// Categorize derives a category from the structured tags a vault supplies
// for a field. purpose is the semantic tag ("PASSWORD", "USERNAME", ...),
// fieldType the value type ("CONCEALED", "OTP", ...). The label is only
// consulted when the field carries neither tag.
func Categorize(purpose, fieldType, label string) Category {
	purpose = strings.ToUpper(strings.TrimSpace(purpose))
	fieldType = strings.ToUpper(strings.TrimSpace(fieldType))

	switch {
	case purpose == "PASSWORD":
		return CategoryPassword
	case purpose == "OTP", purpose == "ONE_TIME_PASSWORD",
		fieldType == "OTP", fieldType == "TOTP", fieldType == "ONE_TIME_PASSWORD":
		return CategoryOTP
	case purpose != "" || fieldType != "":
		return CategoryGeneric
	}

	switch strings.ToLower(strings.TrimSpace(label)) {
	case "password":
		return CategoryPassword
	case "one-time password", "one-time-password", "otp", "totp":
		return CategoryOTP
	default:
		return CategoryGeneric
	}
}

// Classify drops fields without a value, masks sensitive ones and sorts the
// rest by category priority. Fields of equal priority keep their order.
func Classify(fs []Field) ([]Row, error) {
	if fs == nil {
		return nil, ErrNoFields
	}

	rows := make([]Row, 0, len(fs))
	for _, f := range fs {
		if f.Value == nil {
			continue
		}
		category := f.Category
		if category == "" {
			category = CategoryGeneric
		}
		rows = append(rows, Row{
			Label:    f.Label,
			Display:  category.Mask(*f.Value),
			Value:    *f.Value,
			Category: category,
		})
	}
	if len(rows) == 0 {
		return nil, ErrNoDisplayableFields
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		return a.Category.Priority() - b.Category.Priority()
	})
	return rows, nil
}

// Table returns the display cells of rows, in order.
func Table(rows []Row) [][]string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells()
	}
	return cells
}
