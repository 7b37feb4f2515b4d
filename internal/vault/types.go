package vault

import (
	"github.com/runger/vaultpick/internal/fields"
)

// Summary is one entry of `op item list`.
type Summary struct {
	ID                    string `json:"id"`
	Title                 string `json:"title"`
	Version               int    `json:"version"`
	Vault                 Ref    `json:"vault"`
	Category              string `json:"category"`
	LastEditedBy          string `json:"last_edited_by"`
	CreatedAt             string `json:"created_at"`
	UpdatedAt             string `json:"updated_at"`
	AdditionalInformation string `json:"additional_information,omitempty"`
	URLs                  []URL  `json:"urls,omitempty"`
}

// Item is the full record returned by `op item get`.
type Item struct {
	Summary
	Fields []Field `json:"fields"`
}

// Ref names the vault an item belongs to.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// URL is a website attached to an item.
type URL struct {
	Label   string `json:"label,omitempty"`
	Primary bool   `json:"primary,omitempty"`
	Href    string `json:"href"`
}

// Field is one field of an item as the CLI reports it.
type Field struct {
	ID              string           `json:"id"`
	Type            string           `json:"type"`
	Purpose         string           `json:"purpose,omitempty"`
	Label           string           `json:"label"`
	Value           *string          `json:"value,omitempty"`
	TOTP            *string          `json:"totp,omitempty"`
	Reference       string           `json:"reference,omitempty"`
	PasswordDetails *PasswordDetails `json:"password_details,omitempty"`
}

// PasswordDetails carries the strength rating of a password field.
type PasswordDetails struct {
	Strength string `json:"strength,omitempty"`
}

// PrimaryURL returns the URL marked primary, else the first one, else "".
func (s Summary) PrimaryURL() string {
	for _, u := range s.URLs {
		if u.Primary {
			return u.Href
		}
	}
	if len(s.URLs) > 0 {
		return s.URLs[0].Href
	}
	return ""
}

// Cells returns the picker cells for an item: title, extra info, URL.
func (s Summary) Cells() []string {
	return []string{s.Title, s.AdditionalInformation, s.PrimaryURL()}
}

// Classifiable converts the field for classification. A current TOTP code
// takes precedence over the stored value and marks the field as a one-time
// password.
func (f Field) Classifiable() fields.Field {
	if f.TOTP != nil {
		return fields.Field{Label: f.Label, Value: f.TOTP, Category: fields.CategoryOTP}
	}
	return fields.Field{
		Label:    f.Label,
		Value:    f.Value,
		Category: fields.Categorize(f.Purpose, f.Type, f.Label),
	}
}

// ClassifiableFields converts the item's fields. It returns nil when the
// item had no field list, so callers can tell "absent" from "empty".
func (it *Item) ClassifiableFields() []fields.Field {
	if it.Fields == nil {
		return nil
	}
	out := make([]fields.Field, len(it.Fields))
	for i, f := range it.Fields {
		out[i] = f.Classifiable()
	}
	return out
}

// Rows returns the picker cells for a list of items.
func Rows(items []Summary) [][]string {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = it.Cells()
	}
	return rows
}
