package quantity

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	isoDurationPattern   = regexp.MustCompile(`(?i)^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
	hoursPhrasePattern   = regexp.MustCompile(`(?i)(\d+)\s*(?:hours|hour|hrs|hr|h)(?:[^a-z]|$)`)
	minutesPhrasePattern = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes|minute|mins|min|m)(?:[^a-z]|$)`)
	clockPattern         = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	leadingIntPattern    = regexp.MustCompile(`^(\d+)`)
)

// Minutes parses a duration phrase into whole minutes. Patterns are tried in
// order and the first match wins:
//
//	PT1H30M        ISO-8601 style, seconds floored to minutes
//	1h 30min       hour and minute phrases, summed
//	1:30           HH:MM
//	45             bare leading integer
func Minutes(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if m := isoDurationPattern.FindStringSubmatch(value); m != nil && (m[1] != "" || m[2] != "" || m[3] != "") {
		return atoi(m[1])*60 + atoi(m[2]) + atoi(m[3])/60, true
	}

	hours := hoursPhrasePattern.FindStringSubmatch(value)
	minutes := minutesPhrasePattern.FindStringSubmatch(value)
	if hours != nil || minutes != nil {
		total := 0
		if hours != nil {
			total += atoi(hours[1]) * 60
		}
		if minutes != nil {
			total += atoi(minutes[1])
		}
		return total, true
	}

	if m := clockPattern.FindStringSubmatch(value); m != nil {
		return atoi(m[1])*60 + atoi(m[2]), true
	}

	if m := leadingIntPattern.FindStringSubmatch(value); m != nil {
		return atoi(m[1]), true
	}

	return 0, false
}

func atoi(value string) int {
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}
