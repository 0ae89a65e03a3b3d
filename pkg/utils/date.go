package utils

import "time"

const monthLayout = "2006-01"

// ParseMonth parses a YYYY-MM string into the first day of that month, UTC.
func ParseMonth(monthStr string) (time.Time, error) {
	return time.Parse(monthLayout, monthStr)
}

// FormatMonth renders a time as YYYY-MM.
func FormatMonth(t time.Time) string {
	return t.Format(monthLayout)
}
