package utils

import (
	"time"
	_ "time/tzdata"
)

// DateTimeLayout mirrors the en-SG short date/time style, e.g. "3/1/2025, 12:00:00 pm".
const DateTimeLayout = "2/1/2006, 3:04:05 pm"

// Singapore is Asia/Singapore, falling back to a fixed +08:00 zone.
var Singapore = loadSingapore()

func loadSingapore() *time.Location {
	loc, err := time.LoadLocation("Asia/Singapore")
	if err != nil {
		return time.FixedZone("SGT", 8*60*60)
	}
	return loc
}

// FormatDateTime renders t in loc using DateTimeLayout.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = Singapore
	}
	return t.In(loc).Format(DateTimeLayout)
}
