package service

import "time"

// ApproximateAge returns the difference between the current year and the
// birth year. It ignores month and day, so it can overstate the age by one.
// Compatibility scoring uses it; displayed ages use ExactAge.
func ApproximateAge(birth *time.Time, now time.Time) (int, bool) {
	if birth == nil {
		return 0, false
	}
	return now.Year() - birth.Year(), true
}

// ExactAge returns the age in completed years at now.
func ExactAge(birth *time.Time, now time.Time) (int, bool) {
	if birth == nil {
		return 0, false
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, true
}
