package domain

import (
	"strings"
	"unicode"
)

const (
	TrackingCodePrefix    = "ENV"
	minTrackingCodeDigits = 3
)

// ValidateName accepts letters and spaces only. Accented letters are letters.
func ValidateName(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", invalid("customer_name", "Error: customer name cannot be empty.")
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && r != ' ' {
			return "", invalid("customer_name", "Error: customer name may only contain letters and spaces.")
		}
	}
	return trimmed, nil
}

// ValidateAddress accepts letters, digits and spaces only.
func ValidateAddress(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", invalid("address", "Error: address cannot be empty.")
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			return "", invalid("address", "Error: address may only contain letters, numbers and spaces.")
		}
	}
	return trimmed, nil
}

// ValidateTrackingCode checks the ENV<digits> syntax on the upper-cased input
// and returns the upper-cased code.
func ValidateTrackingCode(s string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(code, TrackingCodePrefix) {
		return "", invalid("tracking_code", "Error: tracking code must start with '%s'.", TrackingCodePrefix)
	}

	digits := code[len(TrackingCodePrefix):]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", invalid("tracking_code", "Error: tracking code must be '%s' followed by digits only.", TrackingCodePrefix)
		}
	}
	if len(digits) < minTrackingCodeDigits {
		return "", invalid("tracking_code", "Error: tracking code must have at least %d digits (e.g. %s001).", minTrackingCodeDigits, TrackingCodePrefix)
	}
	return code, nil
}
