// Package duration parses free-text durations like "1h 30m" into exact
// decimal hours.
package duration

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidFormat is returned when neither an hours nor a minutes
	// token is present in the input.
	ErrInvalidFormat = errors.New("invalid format. Use 'h' for hours and 'm' for minutes (e.g., '1h 30m', '1h', or '30m')")
	// ErrInvalidMinutes is returned when the minutes component is 60 or more.
	ErrInvalidMinutes = errors.New("minutes must be less than 60")
)

var (
	hourRe   = regexp.MustCompile(`(\d+)\s*h`)
	minuteRe = regexp.MustCompile(`(\d+)\s*m`)
)

var sixty = decimal.NewFromInt(60)

// Parse converts a duration string into decimal hours. Hours ("2h") and
// minutes ("30m") tokens may appear in either order; either or both must
// be present. Minutes must be in [0,59]; hours are unbounded. A zero
// duration ("0h 0m") is valid.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	var hours, minutes int64
	hourMatch := hourRe.FindStringSubmatch(s)
	if hourMatch != nil {
		hours, _ = strconv.ParseInt(hourMatch[1], 10, 64)
	}
	minuteMatch := minuteRe.FindStringSubmatch(s)
	if minuteMatch != nil {
		minutes, _ = strconv.ParseInt(minuteMatch[1], 10, 64)
	}

	if hourMatch == nil && minuteMatch == nil {
		return decimal.Zero, ErrInvalidFormat
	}
	if minutes >= 60 {
		return decimal.Zero, ErrInvalidMinutes
	}

	return decimal.NewFromInt(hours).Add(decimal.NewFromInt(minutes).DivRound(sixty, 2)), nil
}

// Format renders decimal hours back into the "Xh Ym" form used for input,
// e.g. 1.50 -> "1h 30m".
func Format(hours decimal.Decimal) string {
	totalMinutes := hours.Mul(sixty).Round(0).IntPart()
	h := totalMinutes / 60
	m := totalMinutes % 60
	return strconv.FormatInt(h, 10) + "h " + strconv.FormatInt(m, 10) + "m"
}
