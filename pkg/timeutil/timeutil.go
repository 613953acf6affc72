// Package timeutil resolves a date string, a time-of-day string, and an
// address into a timezone-aware instant (C3), and formats instants back
// into the 12-/24-hour strings the scheduling engine's output uses.
//
// Grounded on the source system's app/internal/timeaddr.py: a zipcode
// range table maps the trailing token of an address to an IANA timezone
// id, which anchors a "Month Day, Year" + "HH:MM" pair into an absolute
// instant.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "January 2, 2006"

// ResolvePickupInstant resolves dateStr ("Month Day, Year"), timeStr
// ("HH:MM"), and address (whose trailing token is a ZIP code) into an
// absolute instant in the address's local timezone (I4).
func ResolvePickupInstant(dateStr, timeStr, address string) (time.Time, error) {
	tzID, ok := TimezoneForAddress(address)
	if !ok {
		return time.Time{}, fmt.Errorf("timeutil: could not resolve timezone for address %q", address)
	}
	return ResolveInstant(dateStr, timeStr, tzID)
}

// ResolveInstant combines dateStr and timeStr into an absolute instant in
// the named IANA timezone.
func ResolveInstant(dateStr, timeStr, tzID string) (time.Time, error) {
	base, err := time.Parse(dateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid date %q: %w", dateStr, err)
	}

	hour, minute, err := parseHHMM(timeStr)
	if err != nil {
		return time.Time{}, err
	}

	loc, err := time.LoadLocation(tzID)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: unknown timezone %q: %w", tzID, err)
	}

	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, loc), nil
}

func parseHHMM(timeStr string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(timeStr), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("timeutil: invalid time %q, want HH:MM", timeStr)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("timeutil: invalid hour in %q: %w", timeStr, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("timeutil: invalid minute in %q: %w", timeStr, err)
	}
	return hour, minute, nil
}

// To12Hour formats t as "03:04 PM" in t's own location.
func To12Hour(t time.Time) string {
	return t.Format("03:04 PM")
}

// To24Hour formats t as "15:04" in t's own location.
func To24Hour(t time.Time) string {
	return t.Format("15:04")
}

// addressZipcode extracts the trailing whitespace-delimited token of an
// address string, which convention holds to be the ZIP code.
func addressZipcode(address string) string {
	parts := strings.Fields(address)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// TimezoneForAddress looks up the IANA timezone id for an address by
// extracting its trailing ZIP code and consulting the zipcode range
// table.
func TimezoneForAddress(address string) (string, bool) {
	return TimezoneForZipcode(addressZipcode(address))
}

// TimezoneForZipcode looks up the IANA timezone id for a 5-digit ZIP
// code string.
func TimezoneForZipcode(zipcode string) (string, bool) {
	z, err := strconv.Atoi(strings.TrimSpace(zipcode))
	if err != nil {
		return "", false
	}
	for _, entry := range zipcodeTimezones {
		if z >= entry.zipStart && z <= entry.zipEnd {
			return entry.timezoneID, true
		}
	}
	return "", false
}

// StateCodeForZipcode looks up the two-letter state code for a ZIP code,
// mirroring the source's get_state_code helper.
func StateCodeForZipcode(zipcode string) (string, bool) {
	z, err := strconv.Atoi(strings.TrimSpace(zipcode))
	if err != nil {
		return "", false
	}
	for _, entry := range zipcodeTimezones {
		if z >= entry.zipStart && z <= entry.zipEnd {
			return entry.stateCode, true
		}
	}
	return "", false
}
