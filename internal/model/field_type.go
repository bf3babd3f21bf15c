package model

import (
	"errors"
	"fmt"
)

// FieldType is the semantic meaning assigned to a form control.
// Exactly one FieldType is assigned per control per fill pass.
type FieldType int

const (
	// FieldGenericText is the fallback for controls that match no rule.
	FieldGenericText FieldType = iota

	// FieldIgnore marks controls that must never be written:
	// passwords, captchas, one-time codes and similar secrets.
	FieldIgnore

	FieldFullNameKanji
	FieldSurnameKanji
	FieldGivenNameKanji
	FieldFullNameHiragana
	FieldSurnameHiragana
	FieldGivenNameHiragana
	FieldFullNameKatakana
	FieldSurnameKatakana
	FieldGivenNameKatakana

	FieldEmail
	FieldPhone
	FieldMobilePhone

	FieldPostalCode
	FieldPrefecture
	FieldCity
	// FieldAddress is the street part of an address (town + block number).
	FieldAddress
	// FieldFullAddress is the complete address including the postal mark.
	FieldFullAddress

	FieldCompanyName
	FieldDate
	FieldNumber
	FieldURL
)

var fieldTypeNames = map[FieldType]string{
	FieldGenericText:       "generic_text",
	FieldIgnore:            "ignore",
	FieldFullNameKanji:     "full_name_kanji",
	FieldSurnameKanji:      "surname_kanji",
	FieldGivenNameKanji:    "given_name_kanji",
	FieldFullNameHiragana:  "full_name_hiragana",
	FieldSurnameHiragana:   "surname_hiragana",
	FieldGivenNameHiragana: "given_name_hiragana",
	FieldFullNameKatakana:  "full_name_katakana",
	FieldSurnameKatakana:   "surname_katakana",
	FieldGivenNameKatakana: "given_name_katakana",
	FieldEmail:             "email",
	FieldPhone:             "phone",
	FieldMobilePhone:       "mobile_phone",
	FieldPostalCode:        "postal_code",
	FieldPrefecture:        "prefecture",
	FieldCity:              "city",
	FieldAddress:           "address",
	FieldFullAddress:       "full_address",
	FieldCompanyName:       "company_name",
	FieldDate:              "date",
	FieldNumber:            "number",
	FieldURL:               "url",
}

// ErrUnknownFieldType is returned by ParseFieldType for unrecognized names.
var ErrUnknownFieldType = errors.New("unknown field type")

// String returns the snake_case name of the field type.
func (f FieldType) String() string {
	if name, ok := fieldTypeNames[f]; ok {
		return name
	}
	return "unknown"
}

// IsName reports whether the field type holds any part of a person name.
func (f FieldType) IsName() bool {
	return f >= FieldFullNameKanji && f <= FieldGivenNameKatakana
}

// MarshalText implements encoding.TextMarshaler so reports carry readable names.
func (f FieldType) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFieldType converts a snake_case name back into a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	for ft, name := range fieldTypeNames {
		if name == s {
			return ft, nil
		}
	}
	return FieldGenericText, fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
}
