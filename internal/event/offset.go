package event

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidOffset is returned when a UTC offset cannot be parsed
var ErrInvalidOffset = errors.New("invalid offset format")

// offsetPattern matches "+11", "-4", "+5:30" and "+1100" at the start of the text
var offsetPattern = regexp.MustCompile(`^([+-])(\d{1,2})(:?)(\d{0,2})`)

// Offset is a signed distance from UTC in whole minutes
type Offset int

// ParseOffset parses a textual UTC offset such as "+11", "-4", "+5:30" or "+1100".
// Minutes default to 0 when absent and the sign applies to hours and minutes alike.
// Text after the offset is ignored.
func ParseOffset(text string) (Offset, error) {
	matches := offsetPattern.FindStringSubmatch(text)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOffset, text)
	}

	hours, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOffset, text)
	}

	minutes := 0
	if matches[4] != "" {
		minutes, err = strconv.Atoi(matches[4])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidOffset, text)
		}
	}

	total := hours*60 + minutes
	if matches[1] == "-" {
		total = -total
	}
	return Offset(total), nil
}

// Seconds returns the offset in seconds
func (o Offset) Seconds() int {
	return int(o) * 60
}

// Location returns a fixed time zone for the offset, named like "UTC+05:30"
func (o Offset) Location() *time.Location {
	return time.FixedZone(o.String(), o.Seconds())
}

func (o Offset) String() string {
	sign := '+'
	m := int(o)
	if m < 0 {
		sign = '-'
		m = -m
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, m/60, m%60)
}
