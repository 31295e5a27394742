package quantity

import (
	"regexp"
	"strings"
)

var numericWithUnitPattern = regexp.MustCompile(`^([\d/.,]+)\s*([A-Za-z]+)?$`)

// Amount is the parsed view of a brace payload. Value and Unit are nil when
// the payload did not provide them.
type Amount struct {
	Value *float64
	Unit  *string
}

// HasValue reports whether a numeric value was parsed.
func (a Amount) HasValue() bool { return a.Value != nil }

// Split separates a raw payload into a numeric value and a unit. A "%"
// separates the two explicitly ("200%g"); otherwise a leading numeric run may
// be followed directly by letters ("10min"). Anything else is normalized
// as a whole with no unit.
func Split(raw string) Amount {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Amount{}
	}

	if before, after, found := strings.Cut(trimmed, "%"); found {
		amount := Amount{Value: normalizePtr(before)}
		if unit := strings.TrimSpace(after); unit != "" {
			amount.Unit = &unit
		}
		return amount
	}

	if m := numericWithUnitPattern.FindStringSubmatch(trimmed); m != nil {
		amount := Amount{Value: normalizePtr(m[1])}
		if m[2] != "" {
			unit := m[2]
			amount.Unit = &unit
		}
		return amount
	}

	return Amount{Value: normalizePtr(trimmed)}
}

var compactDurationPattern = regexp.MustCompile(`^([\d/.,]+)([A-Za-z]+)?$`)

// SplitCompact interprets a brace-less timer segment such as "10min" or "5".
// ok is false when the segment does not start with a numeric run, in which
// case callers treat it as a name.
func SplitCompact(segment string) (Amount, bool) {
	m := compactDurationPattern.FindStringSubmatch(segment)
	if m == nil {
		return Amount{}, false
	}
	amount := Amount{Value: normalizePtr(m[1])}
	if m[2] != "" {
		unit := m[2]
		amount.Unit = &unit
	}
	return amount, true
}

func normalizePtr(value string) *float64 {
	parsed, ok := Normalize(value)
	if !ok {
		return nil
	}
	return &parsed
}
