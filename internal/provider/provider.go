// Package provider implements the external data sources the scheduling
// engine consumes: the umd.io sections API, the Testudo schedule-of-classes
// pages, and the PlanetTerp professor rating API.
package provider

import (
	"fmt"
	"strconv"
	"strings"
)

// parseClock converts a catalog clock string such as "9:30am" or "12:00pm"
// into minutes since midnight.
func parseClock(raw string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	pm := false
	switch {
	case strings.HasSuffix(s, "am"):
		s = strings.TrimSuffix(s, "am")
	case strings.HasSuffix(s, "pm"):
		s = strings.TrimSuffix(s, "pm")
		pm = true
	}
	s = strings.TrimSpace(s)

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", raw)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q: %w", raw, err)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q: %w", raw, err)
	}
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock value %q out of range", raw)
	}

	if hour == 12 {
		hour = 0
	}
	if pm {
		hour += 12
	}
	return hour*60 + minute, nil
}

// atoiLoose parses integers from feeds that occasionally wrap numbers in
// whitespace or return empty strings for zero.
func atoiLoose(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
