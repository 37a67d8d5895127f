package replay

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/techpath/pkg/errors"
)

// TimeMode selects how "MM:SS" strings are converted to minutes.
type TimeMode string

const (
	// TimeDecimal treats the separator as a decimal point: "1:30" -> 1.30.
	TimeDecimal TimeMode = "decimal"

	// TimeMinutes converts base-60: "1:30" -> 1.5.
	TimeMinutes TimeMode = "minutes"
)

// DefaultTimeMode keeps output compatible with earlier renders.
const DefaultTimeMode = TimeDecimal

// ParseTimeMode validates a mode name. The empty string selects
// DefaultTimeMode.
func ParseTimeMode(s string) (TimeMode, error) {
	switch TimeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultTimeMode, nil
	case TimeDecimal:
		return TimeDecimal, nil
	case TimeMinutes:
		return TimeMinutes, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid time mode: %q (must be 'decimal' or 'minutes')", s)
	}
}

// ParseTime converts an elapsed-time string to minutes.
//
// In TimeDecimal mode the first ':' is replaced by '.' and the result parsed
// as a float, exactly like the legacy conversion. In TimeMinutes mode "MM:SS"
// and "H:MM:SS" are converted base-60. A bare number is minutes in both
// modes.
func ParseTime(s string, mode TimeMode) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New(errors.ErrCodeInvalidTime, "empty time value")
	}

	var (
		v   float64
		err error
	)
	switch mode {
	case TimeDecimal, "":
		v, err = parseDecimal(s)
	case TimeMinutes:
		v, err = parseMinutes(s)
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown time mode %q", mode)
	}
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New(errors.ErrCodeInvalidTime, "time %q is not a valid elapsed time", s)
	}
	return v, nil
}

func parseDecimal(s string) (float64, error) {
	if strings.Count(s, ":") > 1 {
		return 0, errors.New(errors.ErrCodeInvalidTime, "time %q has more than one separator (decimal mode expects MM:SS)", s)
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ":", ".", 1), 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidTime, err, "parse time %q", s)
	}
	return v, nil
}

func parseMinutes(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, errors.New(errors.ErrCodeInvalidTime, "time %q has too many separators", s)
	}

	if len(parts) == 1 {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidTime, err, "parse time %q", s)
		}
		return v, nil
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, errors.New(errors.ErrCodeInvalidTime, "time %q: component %q is not a non-negative integer", s, p)
		}
		// every component after the leading one is base-60
		if i > 0 && n >= 60 {
			return 0, errors.New(errors.ErrCodeInvalidTime, "time %q: component %q out of range", s, p)
		}
		nums[i] = n
	}

	if len(nums) == 3 {
		return float64(nums[0]*60+nums[1]) + float64(nums[2])/60, nil
	}
	return float64(nums[0]) + float64(nums[1])/60, nil
}

// FormatMinutes renders a minute value the way edge labels show it.
func FormatMinutes(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
