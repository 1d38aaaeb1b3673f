package reconcile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const canonicalDateLayout = "2006-01-02"

// DefaultAssumedYear is applied to "DD-Mon" dates, which carry no year.
// It is fixed, so files that cross a year boundary get misdated.
const DefaultAssumedYear = 2025

var monthAbbrev = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

var (
	// "Mon 02-Jan-25" or "02-Jan-25"
	dayMonYearRe = regexp.MustCompile(`^(?:\w+\s+)?(\d{1,2})-(\w{3})-(\d{2})$`)
	// "02-Jan"
	dayMonRe = regexp.MustCompile(`^(\d{1,2})-(\w{3})$`)
	// "02/01/2025" or "02-01-2025"
	numericDMYRe = regexp.MustCompile(`^(\d{2})[/-](\d{2})[/-](\d{4})$`)
	// "2025-01-02"
	canonicalRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NormalizeDate converts a raw date string from either source into the
// canonical YYYY-MM-DD join key. It reports false when the string cannot be
// read as a calendar date.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if m := dayMonYearRe.FindStringSubmatch(raw); m != nil {
		month, ok := monthAbbrev[m[2]]
		if !ok {
			return "", false
		}
		return canonicalDate("20"+m[3], month, m[1])
	}

	if m := dayMonRe.FindStringSubmatch(raw); m != nil {
		month, ok := monthAbbrev[m[2]]
		if !ok {
			return "", false
		}
		return canonicalDate(strconv.Itoa(DefaultAssumedYear), month, m[1])
	}

	if m := numericDMYRe.FindStringSubmatch(raw); m != nil {
		month, err := strconv.Atoi(m[2])
		if err != nil {
			return "", false
		}
		return canonicalDate(m[3], month, m[1])
	}

	if canonicalRe.MatchString(raw) {
		if _, err := time.Parse(canonicalDateLayout, raw); err != nil {
			return "", false
		}
		return raw, true
	}

	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return "", false
	}
	t = t.UTC()
	if t.Year() < 1000 || t.Year() > 9999 {
		return "", false
	}
	return t.Format(canonicalDateLayout), true
}

func canonicalDate(year string, month int, day string) (string, bool) {
	if len(day) == 1 {
		day = "0" + day
	}
	s := fmt.Sprintf("%s-%02d-%s", year, month, day)
	if _, err := time.Parse(canonicalDateLayout, s); err != nil {
		return "", false
	}
	return s, true
}

// isWeekend reports whether a canonical date falls on Saturday or Sunday.
func isWeekend(date string) bool {
	t, err := time.Parse(canonicalDateLayout, date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
