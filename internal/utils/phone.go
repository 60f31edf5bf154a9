package utils // phone number normalization shared by registration and the account page

import "strings"

// digitsOnly strips every non-digit rune from s.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone reduces a submitted phone number to the storage format
// DDD-DDD-DDDD. An 11-digit number with a leading country code "1" is
// treated as its 10-digit remainder. Anything that does not reduce to
// exactly 10 digits is returned unmodified, so unusual inputs round-trip
// instead of being destroyed.
func NormalizePhone(raw string) string {
	d := digitsOnly(raw)
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		return raw
	}
	return d[0:3] + "-" + d[3:6] + "-" + d[6:10]
}

// FormatPhoneDisplay renders a stored number as (DDD)DDD-DDDD for the
// account page. Values that are not 10 digits pass through unchanged.
func FormatPhoneDisplay(stored string) string {
	d := digitsOnly(stored)
	if len(d) != 10 {
		return stored
	}
	return "(" + d[0:3] + ")" + d[3:6] + "-" + d[6:10]
}
