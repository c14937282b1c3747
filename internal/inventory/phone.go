package inventory

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// normalizePhone formats a parseable, valid number as E.164 so that the same
// number written two ways is detected as a duplicate. Anything else is kept
// as typed, trimmed.
func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	num, err := libphonenumber.Parse(raw, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return raw
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}
