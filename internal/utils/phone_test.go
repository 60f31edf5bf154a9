package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare ten digits", "2065551234", "206-555-1234"},
		{"formatted input", "(206) 555-1234", "206-555-1234"},
		{"dotted input", "206.555.1234", "206-555-1234"},
		{"leading country code", "12065551234", "206-555-1234"},
		{"country code with punctuation", "+1 (206) 555-1234", "206-555-1234"},
		{"too short passes through", "55512", "55512"},
		{"too long passes through", "220655512345", "220655512345"},
		{"eleven digits not starting with 1", "92065551234", "92065551234"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizePhone(tc.in))
		})
	}
}

func TestFormatPhoneDisplay(t *testing.T) {
	assert.Equal(t, "(206)555-1234", FormatPhoneDisplay("206-555-1234"))
	assert.Equal(t, "(206)555-1234", FormatPhoneDisplay("2065551234"))
	// Values that never normalized stay as stored.
	assert.Equal(t, "violets", FormatPhoneDisplay("violets"))
	assert.Equal(t, "", FormatPhoneDisplay(""))
}

// Storage format survives a second normalization, so re-saving a profile
// does not mangle the number.
func TestNormalizePhoneRoundTrip(t *testing.T) {
	stored := NormalizePhone("2065551234")
	assert.Equal(t, stored, NormalizePhone(stored))
}
