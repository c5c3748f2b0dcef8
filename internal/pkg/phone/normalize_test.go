package phone

import (
	"testing"

	"github.com/phone-token-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{"US without calling code", "6095551212", "US", "+16095551212"},
		{"US with calling code", "16095551212", "US", "+16095551212"},
		{"US with plus", "+16095551212", "US", "+16095551212"},
		{"US with plus foreign region", "+16095551212", "RU", "+16095551212"},
		{"US with dashes", "609-555-1212", "US", "+16095551212"},
		{"US with spaces", "  609 555 1212  ", "US", "+16095551212"},
		{"US with parens", "(212)555-1212", "US", "+12125551212"},
		{"lowercase region", "212-555-1212", "us", "+12125551212"},
		{"empty region defaults to US", "212-555-1212", "", "+12125551212"},
		{"RU without calling code", "800 555 35 35", "RU", "+78005553535"},
		{"RU with calling code", "+7 800 555 35 35", "US", "+78005553535"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.raw, tc.region)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalize_VariantsAgree(t *testing.T) {
	variants := []string{
		"+1-212-555-1212",
		"212-555-1212",
		"+12125551212",
		"1-212-555-1212",
		"+1 212 555-1212",
		" 212 555  1212  ",
		"(212)555-1212",
	}
	for _, v := range variants {
		got, err := Normalize(v, "US")
		require.NoError(t, err, v)
		assert.Equal(t, "+12125551212", got, v)
	}
}

func TestNormalize_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "INVALIDfjkdsaljfkslj", "12"} {
		_, err := Normalize(raw, "US")
		assert.ErrorIs(t, err, domain.ErrInvalidPhone, raw)
		assert.ErrorIs(t, err, domain.ErrBadRequest, raw)
	}
}

func TestNormalize_ErrorOmitsInput(t *testing.T) {
	for _, raw := range []string{"212-555-12", "555-12", "+1 609"} {
		_, err := Normalize(raw, "US")
		require.Error(t, err, raw)
		assert.NotContains(t, err.Error(), raw)
		assert.NotContains(t, err.Error(), "555")
	}
}

func TestRegion(t *testing.T) {
	assert.Equal(t, "US", Region("+12125551212"))
	assert.Equal(t, "", Region("not a number"))
}
