package validation

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Style selects how a normalized number is rendered.
type Style string

const (
	StyleE164          Style = "e164"
	StyleInternational Style = "international"
	StyleNational      Style = "national"
	StyleRFC3966       Style = "rfc3966"
)

var styles = map[Style]phonenumbers.PhoneNumberFormat{
	StyleE164:          phonenumbers.E164,
	StyleInternational: phonenumbers.INTERNATIONAL,
	StyleNational:      phonenumbers.NATIONAL,
	StyleRFC3966:       phonenumbers.RFC3966,
}

// ParseStyle accepts a style name; empty means e164.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return StyleE164, nil
	}
	if _, ok := styles[st]; !ok {
		return "", fmt.Errorf("неизвестный формат вывода '%s' (допустимо: e164, international, national, rfc3966)", s)
	}
	return st, nil
}

// Format renders a number produced by Validate. E.164 output is returned
// unchanged; the other styles use libphonenumber's layout for the country.
func Format(normalized, country string, style Style) (string, error) {
	if style == "" || style == StyleE164 {
		return normalized, nil
	}
	f, ok := styles[style]
	if !ok {
		return "", fmt.Errorf("неизвестный формат вывода '%s'", style)
	}

	num, err := phonenumbers.Parse(normalized, countryKey(country))
	if err != nil {
		return "", fmt.Errorf("ошибка разбора номера '%s': %w", normalized, err)
	}
	return phonenumbers.Format(num, f), nil
}
