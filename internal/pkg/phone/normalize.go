// Package phone converts human-entered phone numbers into E.164.
package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/phone-token-service/internal/domain"
)

// DefaultRegion is used when no region hint is configured.
const DefaultRegion = "US"

// Normalize parses raw and returns it in E.164 format. region is the ISO
// 3166-1 alpha-2 code applied only when raw carries no calling code.
// Every failure wraps domain.ErrInvalidPhone and leaves raw out of the message.
func Normalize(raw, region string) (string, error) {
	num, err := parse(raw, region)
	if err != nil {
		return "", err
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Region returns the ISO region of an E.164 number, or "" when unknown.
func Region(e164 string) string {
	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return ""
	}
	return phonenumbers.GetRegionCodeForNumber(num)
}

func parse(raw, region string) (*phonenumbers.PhoneNumber, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty phone number: %w", domain.ErrInvalidPhone)
	}
	if region == "" {
		region = DefaultRegion
	}
	num, err := phonenumbers.Parse(trimmed, strings.ToUpper(region))
	if err != nil {
		return nil, fmt.Errorf("parse phone number: %v: %w", err, domain.ErrInvalidPhone)
	}
	// Full validity is not required: numbers only need a plausible length
	// for their region.
	if !phonenumbers.IsPossibleNumber(num) {
		return nil, fmt.Errorf("not a possible number for region %s: %w", strings.ToUpper(region), domain.ErrInvalidPhone)
	}
	return num, nil
}
