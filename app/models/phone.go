package models

import (
	"fmt"

	"github.com/ttacon/libphonenumber"
)

// DefaultPhoneRegion is the region used to parse numbers entered without a
// country prefix.
var DefaultPhoneRegion = "IN"

// NormalizePhone parses a phone number and returns it in E.164 form.
// An empty input is passed through unchanged.
func NormalizePhone(raw, region string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := libphonenumber.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("invalid phone number: %w", err)
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number: %s", raw)
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
