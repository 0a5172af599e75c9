package store

import "strconv"

const (
	dateLen = 10
	minYear = 2024
)

// IsValidDate reports whether date is in YYYY-MM-DD form with year >= 2024,
// month in 1..12 and day in 1..31.
//
// The day is not checked against the month, so "2024-02-31" is accepted.
func IsValidDate(date string) bool {
	_, _, _, ok := ParseDate(date)
	return ok
}

// ParseDate splits a date accepted by IsValidDate into its numeric parts.
// ok is false for anything IsValidDate rejects.
func ParseDate(date string) (year, month, day int, ok bool) {
	if len(date) != dateLen {
		return 0, 0, 0, false
	}
	if date[4] != '-' || date[7] != '-' {
		return 0, 0, 0, false
	}
	for i := 0; i < dateLen; i++ {
		if i == 4 || i == 7 {
			continue
		}
		if date[i] < '0' || date[i] > '9' {
			return 0, 0, 0, false
		}
	}

	// Structure is known good here, so Atoi cannot fail.
	year, _ = strconv.Atoi(date[0:4])
	month, _ = strconv.Atoi(date[5:7])
	day, _ = strconv.Atoi(date[8:10])

	if year < minYear {
		return 0, 0, 0, false
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, false
	}
	if day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}
