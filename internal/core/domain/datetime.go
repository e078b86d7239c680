package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the canonical form returned by ValidateDateTime.
const DateTimeLayout = "02/01/2006 15:04"

var dateSeparators = strings.NewReplacer("/", " ", ":", " ", "-", " ")

// ValidateDateTime accepts "DD/MM/YYYY HH:MM" with '/', ':' or '-' as
// separators and returns it zero-padded in DateTimeLayout.
func ValidateDateTime(s string) (string, error) {
	parts := strings.Fields(dateSeparators.Replace(s))
	if len(parts) != 5 {
		return "", invalid("datetime", "Error: '%s' must have the form DD/MM/YYYY HH:MM.", s)
	}

	var n [5]int
	for i, p := range parts {
		v, ok := atoiDigits(p)
		if !ok {
			return "", invalid("datetime", "Error: '%s' contains a non-numeric value.", s)
		}
		n[i] = v
	}
	day, month, year, hour, minute := n[0], n[1], n[2], n[3], n[4]

	if year < 1 || year > 9999 {
		return "", invalid("datetime", "Error: invalid year %d (must be between 1 and 9999).", year)
	}
	if month < 1 || month > 12 {
		return "", invalid("datetime", "Error: invalid month %d (must be between 1 and 12).", month)
	}
	if days := DaysInMonth(year, month); day < 1 || day > days {
		return "", invalid("datetime", "Error: invalid day %d (month %02d/%d has %d days).", day, month, year, days)
	}
	if hour < 0 || hour > 23 {
		return "", invalid("datetime", "Error: invalid hour %d (must be between 0 and 23).", hour)
	}
	if minute < 0 || minute > 59 {
		return "", invalid("datetime", "Error: invalid minute %d (must be between 0 and 59).", minute)
	}

	return fmt.Sprintf("%02d/%02d/%04d %02d:%02d", day, month, year, hour, minute), nil
}

// ParseDateTime validates s and returns the instant it names in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	canonical, err := ValidateDateTime(s)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateTimeLayout, canonical, loc)
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns 0 for an out-of-range month.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func atoiDigits(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	return v, err == nil
}
