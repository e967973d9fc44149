package domain

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"time"
)

// FieldType is the closed set of field type tags. The renderer and the
// validator share this enum; free-form tags are rejected at field creation.
type FieldType string

// Supported field types.
const (
	FieldTypeText          FieldType = "text"
	FieldTypeTextArea      FieldType = "textarea"
	FieldTypeNumber        FieldType = "number"
	FieldTypeCurrency      FieldType = "currency"
	FieldTypeDate          FieldType = "date"
	FieldTypeDateTime      FieldType = "datetime"
	FieldTypeBoolean       FieldType = "boolean"
	FieldTypeEmail         FieldType = "email"
	FieldTypePhone         FieldType = "phone"
	FieldTypeURL           FieldType = "url"
	FieldTypePicklist      FieldType = "picklist"
	FieldTypeMultiPicklist FieldType = "multipicklist"
	FieldTypeLookup        FieldType = "lookup"
)

var fieldTypes = map[FieldType]bool{
	FieldTypeText: true, FieldTypeTextArea: true, FieldTypeNumber: true,
	FieldTypeCurrency: true, FieldTypeDate: true, FieldTypeDateTime: true,
	FieldTypeBoolean: true, FieldTypeEmail: true, FieldTypePhone: true,
	FieldTypeURL: true, FieldTypePicklist: true, FieldTypeMultiPicklist: true,
	FieldTypeLookup: true,
}

// Valid reports whether t is a supported field type.
func (t FieldType) Valid() bool {
	return fieldTypes[t]
}

// ValidateValue checks a raw string value against the field type's rules.
// Empty values are accepted; requiredness is a field-level concern.
func (t FieldType) ValidateValue(raw string) error {
	if raw == "" {
		return nil
	}
	switch t {
	case FieldTypeNumber, FieldTypeCurrency:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Errorf("value %q is not numeric", raw)
		}
	case FieldTypeBoolean:
		if _, err := strconv.ParseBool(raw); err != nil {
			return fmt.Errorf("value %q is not a boolean", raw)
		}
	case FieldTypeDate:
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return fmt.Errorf("value %q is not a date (YYYY-MM-DD)", raw)
		}
	case FieldTypeDateTime:
		if _, err := time.Parse(time.RFC3339, raw); err != nil {
			return fmt.Errorf("value %q is not an RFC 3339 timestamp", raw)
		}
	case FieldTypeEmail:
		if _, err := mail.ParseAddress(raw); err != nil {
			return fmt.Errorf("value %q is not an email address", raw)
		}
	case FieldTypeURL:
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("value %q is not an absolute URL", raw)
		}
	}
	return nil
}
