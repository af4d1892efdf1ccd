// Package formatting provides parsing and formatting of human-readable
// configuration values such as day-scale durations.
package formatting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	Day  = 24 * time.Hour
	Week = 7 * Day
)

var dayPattern = regexp.MustCompile(`^(\d+)\s*([dDwW])$`)

// ParseDuration parses a duration that may use day ("35d") or week ("2w")
// units in addition to everything time.ParseDuration accepts.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration string")
	}

	matches := dayPattern.FindStringSubmatch(s)
	if matches == nil {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %q", s)
		}
		return d, nil
	}

	n, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration number: %w", err)
	}

	unit := Day
	if strings.EqualFold(matches[2], "w") {
		unit = Week
	}
	return time.Duration(n) * unit, nil
}

// FormatDuration renders whole-day durations with the day unit and anything
// else with time.Duration's own format.
func FormatDuration(d time.Duration) string {
	if d > 0 && d%Day == 0 {
		return fmt.Sprintf("%dd", d/Day)
	}
	return d.String()
}
