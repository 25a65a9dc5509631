package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/shiftledger/internal/constants"
)

// ParseDate parses a calendar date (YYYY-MM-DD) as midnight UTC.
// Working in UTC keeps day arithmetic free of DST shifts.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(constants.DateFormat, dateStr)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ValidateDateFormat checks if the string is a valid calendar date.
func ValidateDateFormat(dateStr string) bool {
	_, err := ParseDate(dateStr)
	return err == nil
}

// DatePart returns the YYYY-MM-DD prefix of a date or timestamp string, so a
// stored timestamp such as 2025-01-02T00:00:00Z reads as 2025-01-02.
func DatePart(s string) string {
	if n := len(constants.DateFormat); len(s) > n {
		return s[:n]
	}
	return s
}

// SameDate compares two dates on their DatePart.
func SameDate(a, b string) bool {
	return DatePart(a) == DatePart(b)
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(dateStr string, n int) (string, error) {
	d, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	return FormatDate(d.AddDate(0, 0, n)), nil
}

// InRange reports whether dateStr lies in [start, end], compared on their
// DatePart. Unparseable input is never in range.
func InRange(dateStr, start, end string) bool {
	d, err := ParseDate(DatePart(dateStr))
	if err != nil {
		return false
	}
	s, err := ParseDate(DatePart(start))
	if err != nil {
		return false
	}
	e, err := ParseDate(DatePart(end))
	if err != nil {
		return false
	}
	return !d.Before(s) && !d.After(e)
}

// TrailingWindow returns the first and last day of the n-day window ending on target.
func TrailingWindow(target time.Time, days int) (time.Time, time.Time) {
	if days < 1 {
		days = 1
	}
	return target.AddDate(0, 0, -(days - 1)), target
}

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
}

// MonthRange returns the first and last day of a YYYY-MM month.
func MonthRange(month string) (time.Time, time.Time, error) {
	first, err := time.Parse(constants.MonthFormat, month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", month, err)
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// DatesInRange lists every YYYY-MM-DD date from start to end inclusive.
func DatesInRange(start, end time.Time) []string {
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates
}

// MonthsInclusive counts calendar months from now's month through end's month, both included.
// It is zero or negative when end falls in an earlier month.
func MonthsInclusive(now, end time.Time) int {
	return (end.Year()-now.Year())*12 + int(end.Month()) - int(now.Month()) + 1
}
