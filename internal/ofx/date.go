package ofx

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// bracketForm matches the OFX timezone-suffix encoding: a fixed-width
// numeric timestamp immediately followed by a bracketed signed offset
// and optional zone label, e.g. "20230215120000[-3:BRT]".
var bracketForm = regexp.MustCompile(`^(\d{8,14})\[([+-]?\d{1,2}(?:[.:]\d{1,2})?):?([A-Za-z]{0,5})\]$`)

// compactLayouts are the fixed-width numeric encodings, most specific
// first. Without a bracket suffix they are read as already being UTC.
var compactLayouts = []string{
	"20060102150405",
	"200601021504",
	"20060102",
}

// delimitedLayouts cover year-first dates and generic ISO-8601 forms,
// tried after the fixed-width encodings.
var delimitedLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseStatementDate converts the format's date encodings into a UTC
// instant. Candidates are tried from most to least specific; the first
// success wins. Values that match a shape but name an impossible
// calendar date (e.g. February 30) are rejected, not clamped.
//
// The function never fails hard: irrecoverable input returns ok=false
// and the caller decides the fallback policy.
func ParseStatementDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	if m := bracketForm.FindStringSubmatch(value); m != nil {
		if t, ok := parseBracketed(m[1], m[2], m[3]); ok {
			return t, true
		}
		return time.Time{}, false
	}

	for _, layout := range compactLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}

	for _, layout := range delimitedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// parseBracketed interprets the numeric block as wall-clock time in the
// bracketed UTC offset, then converts to UTC. Offsets may carry
// fractional hours ("-3.5") or explicit minutes ("+05:30").
func parseBracketed(digits, offset, label string) (time.Time, bool) {
	var layout string
	switch len(digits) {
	case 14:
		layout = "20060102150405"
	case 12:
		layout = "200601021504"
	case 8:
		layout = "20060102"
	default:
		return time.Time{}, false
	}

	seconds, ok := offsetSeconds(offset)
	if !ok {
		return time.Time{}, false
	}
	if label == "" {
		label = "OFX"
	}

	t, err := time.ParseInLocation(layout, digits, time.FixedZone(label, seconds))
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// offsetSeconds parses offsets like "-3", "+05", "-3.5" or "+05:30".
func offsetSeconds(offset string) (int, bool) {
	sign := 1
	switch {
	case strings.HasPrefix(offset, "-"):
		sign = -1
		offset = offset[1:]
	case strings.HasPrefix(offset, "+"):
		offset = offset[1:]
	}

	hoursPart := offset
	minutes := 0
	if idx := strings.IndexByte(offset, ':'); idx >= 0 {
		hoursPart = offset[:idx]
		m, err := strconv.Atoi(offset[idx+1:])
		if err != nil || m < 0 || m > 59 {
			return 0, false
		}
		minutes = m
	} else if idx := strings.IndexByte(offset, '.'); idx >= 0 {
		frac, err := strconv.ParseFloat(offset[idx:], 64)
		if err != nil {
			return 0, false
		}
		hoursPart = offset[:idx]
		minutes = int(frac*60 + 0.5)
	}

	hours, err := strconv.Atoi(hoursPart)
	if err != nil || hours > 14 {
		return 0, false
	}

	return sign * (hours*3600 + minutes*60), true
}
