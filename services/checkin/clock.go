package checkin

import "time"

// Clock supplies the current moment in the application timezone. Core
// operations never read the global clock directly so tests can inject a
// fixed one.
type Clock interface {
	Now() time.Time
}

type locationClock struct {
	loc *time.Location
}

// NewClock returns a Clock reporting time in loc.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return &locationClock{loc: loc}
}

func (c *locationClock) Now() time.Time {
	return time.Now().In(c.loc)
}
