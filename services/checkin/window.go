package checkin

import (
	"time"

	"github.com/modentca/modentca-api/models"
)

// Window is the half-open [Start, End) local-time interval during which a
// check-in of a given type is accepted.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor computes the window of checkinType on the calendar day of ref,
// in ref's location. Only the date component of ref matters.
func WindowFor(checkinType string, ref time.Time) (Window, error) {
	var startHour, endHour int
	switch checkinType {
	case models.CheckinMorning:
		startHour, endHour = 4, 13
	case models.CheckinEvening:
		startHour, endHour = 16, 23
	default:
		return Window{}, ErrInvalidType
	}

	y, m, d := ref.Date()
	loc := ref.Location()
	return Window{
		Start: time.Date(y, m, d, startHour, 0, 0, 0, loc),
		End:   time.Date(y, m, d, endHour, 0, 0, 0, loc),
	}, nil
}

// IsWithinWindow reports whether instant falls inside the window of
// checkinType on instant's own day.
func IsWithinWindow(checkinType string, instant time.Time) bool {
	w, err := WindowFor(checkinType, instant)
	if err != nil {
		return false
	}
	return !instant.Before(w.Start) && instant.Before(w.End)
}

// dayKey renders the local calendar day of t, matching Checkin.CheckinDate.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
