package utils

import (
	"time"
)

// istLocation falls back to a fixed +05:30 zone when tzdata is not available.
var istLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}()

// LocationIST returns the Asia/Kolkata location.
func LocationIST() *time.Location {
	return istLocation
}

// TimeNowIST returns the current time in Indian Standard Time.
func TimeNowIST() time.Time {
	return time.Now().In(istLocation)
}

// DateString formats t as YYYY-MM-DD.
func DateString(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseDate parses a YYYY-MM-DD string, returning the zero time for an empty value.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(time.DateOnly, value, istLocation)
}
