// Package dateutil buckets timestamps into KST calendar days. News is
// grouped by the Korean local date regardless of the server timezone, so
// the UTC+9 offset lives here and nowhere else.
package dateutil

import "time"

var KST = time.FixedZone("KST", 9*60*60)

// DisplayDate returns midnight (KST) of the KST calendar day containing t.
func DisplayDate(t time.Time) time.Time {
	kst := t.In(KST)
	return time.Date(kst.Year(), kst.Month(), kst.Day(), 0, 0, 0, 0, KST)
}

// DayString formats a display date the way the DATE column stores it.
func DayString(t time.Time) string {
	return t.In(KST).Format("2006-01-02")
}

// ParseDay parses a YYYY-MM-DD string into a KST display date.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, KST)
}
