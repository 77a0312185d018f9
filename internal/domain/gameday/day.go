package gameday

import (
	"fmt"
	"strings"
	"time"
)

const (
	keyLayout  = "2006-01-02"
	feedLayout = "20060102"
)

// Day is a calendar game day, stored as YYYY-MM-DD.
type Day string

func FromTime(t time.Time, loc *time.Location) Day {
	if loc != nil {
		t = t.In(loc)
	}
	return Day(t.Format(keyLayout))
}

// Parse accepts YYYY-MM-DD or the feed's YYYYMMDD.
func Parse(raw string) (Day, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range []string{keyLayout, feedLayout} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return Day(parsed.Format(keyLayout)), nil
		}
	}
	return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD or YYYYMMDD", raw)
}

func (d Day) String() string {
	return string(d)
}

// Feed renders the day the way the scoreboard endpoint expects it.
func (d Day) Feed() string {
	return strings.ReplaceAll(string(d), "-", "")
}

func (d Day) IsZero() bool {
	return d == ""
}
