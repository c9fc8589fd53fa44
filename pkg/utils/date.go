package utils

import (
	"time"
)

// marketLocation is the exchange's local time zone. A fixed +05:30 offset is
// used when the zoneinfo database is missing from the host.
var marketLocation = loadLocation("Asia/Kolkata", 5*60*60+30*60)

func loadLocation(name string, offsetSeconds int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, offsetSeconds)
	}
	return loc
}

// TimeNowIST returns the current time in India Standard Time.
func TimeNowIST() time.Time {
	return time.Now().In(marketLocation)
}

// PrettyDate renders t in market time, e.g. "Mon, 02 Jan 2006 15:04 IST".
func PrettyDate(t time.Time) string {
	return t.In(marketLocation).Format("Mon, 02 Jan 2006 15:04") + " IST"
}
