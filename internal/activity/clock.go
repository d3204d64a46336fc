// AngelaMos | 2026
// clock.go

package activity

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock pins "now" and the zone whose midnights separate calendar days.
type Clock struct {
	clock clockwork.Clock
	loc   *time.Location
}

func NewClock(c clockwork.Clock, loc *time.Location) *Clock {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{clock: c, loc: loc}
}

func (c *Clock) Now() time.Time {
	return c.clock.Now().In(c.loc)
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Today is local midnight of the current day.
func (c *Clock) Today() time.Time {
	return StartOfDay(c.Now(), c.loc)
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// dayNumber counts civil days since the Unix epoch for t's date in loc.
// DST transitions do not affect it.
func dayNumber(t time.Time, loc *time.Location) int {
	t = t.In(loc)
	civil := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(civil.Unix() / 86400)
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}
