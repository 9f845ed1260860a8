// Package reading extracts typed values from the free-text strings appliances
// return for metered values and flags.
package reading

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/muurk/vzug/internal/deviceapi"
)

var (
	kwhPattern   = regexp.MustCompile(`(\d+(?:[\,\.]\d+)?).?kWh`)
	literPattern = regexp.MustCompile(`(\d+(?:[\,\.]\d+)?).?ℓ`)
)

// ReadKWh returns the first number directly followed by a kWh marker.
// Both "." and "," are accepted as decimal separator.
func ReadKWh(s string) (float64, error) {
	return readUnit(s, kwhPattern, "kWh")
}

// ReadLiters returns the first number directly followed by a ℓ marker.
func ReadLiters(s string) (float64, error) {
	return readUnit(s, literPattern, "liter")
}

func readUnit(s string, re *regexp.Regexp, unit string) (float64, error) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, deviceapi.NewMalformedError(fmt.Sprintf("Cannot find %s value in string %q", unit, s), nil)
	}

	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, deviceapi.NewMalformedError(fmt.Sprintf("Cannot parse %s value in string %q", unit, s), err)
	}
	return v, nil
}

// ParseFlag maps the textual flags appliances send to a bool.
// Accepted: y, yes, t, true, on, 1 and n, no, f, false, off, 0 (any case).
func ParseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "t", "true", "on", "1":
		return true, nil
	case "n", "no", "f", "false", "off", "0":
		return false, nil
	}
	return false, deviceapi.NewMalformedError(fmt.Sprintf("invalid truth value %q", s), nil)
}

// ParseInactive converts an "Inactive" flag into an active flag.
func ParseInactive(s string) (bool, error) {
	inactive, err := ParseFlag(s)
	if err != nil {
		return false, err
	}
	return !inactive, nil
}
