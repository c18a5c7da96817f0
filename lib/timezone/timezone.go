package timezone

import (
	"time"
	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Tashkent")
	if err != nil {
		panic(err)
	}
}

// Now is pinned to Tashkent so that "same day" comparisons on crawl
// snapshots follow the banks' calendar regardless of where we run.
func Now() time.Time {
	return time.Now().In(Location)
}

// StartOfDay returns midnight of t's day in Tashkent and of the next day.
func StartOfDay(t time.Time) (time.Time, time.Time) {
	t = t.In(Location)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
	return start, start.AddDate(0, 0, 1)
}
