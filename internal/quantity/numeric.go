package quantity

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	mixedFractionPattern  = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)$`)
	simpleFractionPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)
	numericPattern        = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// Normalize converts numeric text into a float. Mixed fractions ("1 1/2"),
// simple fractions ("3/4") and decimals using either "." or "," are accepted.
// The boolean is false when the text is empty, non-numeric or divides by zero.
func Normalize(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if m := mixedFractionPattern.FindStringSubmatch(value); m != nil {
		whole, _ := strconv.Atoi(m[1])
		numerator, _ := strconv.Atoi(m[2])
		denominator, _ := strconv.Atoi(m[3])
		if denominator == 0 {
			return 0, false
		}
		return float64(whole) + float64(numerator)/float64(denominator), true
	}

	if m := simpleFractionPattern.FindStringSubmatch(value); m != nil {
		numerator, _ := strconv.Atoi(m[1])
		denominator, _ := strconv.Atoi(m[2])
		if denominator == 0 {
			return 0, false
		}
		return float64(numerator) / float64(denominator), true
	}

	normalized := strings.ReplaceAll(value, ",", ".")
	if !IsNumeric(normalized) {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// IsNumeric reports whether value is a plain decimal number, optionally signed
// and with an exponent. Surrounding whitespace is ignored.
func IsNumeric(value string) bool {
	return numericPattern.MatchString(strings.TrimSpace(value))
}

// Truncate parses a numeric string and drops its fractional part.
func Truncate(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if !IsNumeric(value) {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return int(parsed), true
}
