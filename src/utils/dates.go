// backend/src/utils/dates.go
package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseableDate is returned when no supported date layout matches.
var ErrUnparseableDate = errors.New("unparseable date")

// excelEpoch is day zero of Excel's 1900 date system. Serial 25569 is
// 1970-01-01; the epoch itself is 1899-12-30 because of the leap-year bug
// Excel preserves for compatibility.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var slashDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)

// textualLayouts cover month-name exports seen across broker files.
var textualLayouts = []string{
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
}

// isoLayouts are tried first; brokers exporting machine formats use these.
var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// ParseFlexibleDate parses a date cell in any of the supported layouts:
// ISO, DD/MM/YYYY, MM/DD/YYYY, DD-MM-YYYY, Excel serial numbers and
// textual month names.
//
// Slash/dash dates where both fields are <= 12 are genuinely ambiguous
// between DD/MM and MM/DD. When the day field exceeds 12 the layout is
// forced to DD/MM. Otherwise DD/MM wins and ambiguous=true is returned so
// callers can flag the row instead of silently trusting the guess.
func ParseFlexibleDate(s string) (t time.Time, ambiguous bool, err error) {
	cleaned := strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "\""))
	if cleaned == "" {
		return time.Time{}, false, ErrUnparseableDate
	}

	for _, layout := range isoLayouts {
		if parsed, perr := time.Parse(layout, cleaned); perr == nil {
			return parsed, false, nil
		}
	}

	if m := slashDateRe.FindStringSubmatch(cleaned); m != nil {
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		day, month := first, second
		switch {
		case first > 12 && second <= 12:
			// Must be DD/MM.
		case second > 12 && first <= 12:
			// Must be MM/DD.
			day, month = second, first
		case first > 12 && second > 12:
			return time.Time{}, false, ErrUnparseableDate
		default:
			// Both <= 12: default to DD/MM but tell the caller.
			ambiguous = true
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false, ErrUnparseableDate
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), ambiguous, nil
	}

	for _, layout := range textualLayouts {
		if parsed, perr := time.Parse(layout, cleaned); perr == nil {
			return parsed, false, nil
		}
	}

	// Excel serial date: days (possibly fractional) since the 1900 epoch.
	if serial, perr := strconv.ParseFloat(cleaned, 64); perr == nil && serial > 0 && serial < 200000 {
		days := int(serial)
		frac := serial - float64(days)
		parsed := excelEpoch.AddDate(0, 0, days).Add(time.Duration(frac * 24 * float64(time.Hour)))
		return parsed, false, nil
	}

	return time.Time{}, false, ErrUnparseableDate
}
