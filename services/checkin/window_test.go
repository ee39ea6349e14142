package checkin

import (
	"testing"
	"time"

	"github.com/modentca/modentca-api/models"
)

func TestWindowForMorningBounds(t *testing.T) {
	refs := []time.Time{
		time.Date(2023, 6, 10, 0, 0, 0, 0, wib),
		time.Date(2023, 6, 10, 9, 41, 3, 500, wib),
		time.Date(2023, 6, 10, 23, 59, 59, 0, wib),
	}
	for _, ref := range refs {
		w, err := WindowFor(models.CheckinMorning, ref)
		if err != nil {
			t.Fatalf("WindowFor failed: %v", err)
		}
		wantStart := time.Date(2023, 6, 10, 4, 0, 0, 0, wib)
		wantEnd := time.Date(2023, 6, 10, 13, 0, 0, 0, wib)
		if !w.Start.Equal(wantStart) || !w.End.Equal(wantEnd) {
			t.Fatalf("morning window for %v = [%v, %v), want [%v, %v)", ref, w.Start, w.End, wantStart, wantEnd)
		}
	}
}

func TestWindowForEveningBounds(t *testing.T) {
	ref := time.Date(2023, 6, 10, 2, 15, 0, 0, wib)
	w, err := WindowFor(models.CheckinEvening, ref)
	if err != nil {
		t.Fatalf("WindowFor failed: %v", err)
	}
	if w.Start.Hour() != 16 || w.End.Hour() != 23 {
		t.Fatalf("evening window = [%v, %v), want 16:00-23:00", w.Start, w.End)
	}
	if w.Start.Day() != 10 || w.End.Day() != 10 {
		t.Fatalf("evening window left the reference day: [%v, %v)", w.Start, w.End)
	}
}

func TestWindowForInvalidType(t *testing.T) {
	if _, err := WindowFor("noon", time.Now()); err != ErrInvalidType {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestIsWithinWindow(t *testing.T) {
	cases := []struct {
		name        string
		checkinType string
		at          time.Time
		want        bool
	}{
		{"morning inside", models.CheckinMorning, time.Date(2023, 6, 10, 9, 0, 0, 0, wib), true},
		{"morning at start", models.CheckinMorning, time.Date(2023, 6, 10, 4, 0, 0, 0, wib), true},
		{"morning at end is excluded", models.CheckinMorning, time.Date(2023, 6, 10, 13, 0, 0, 0, wib), false},
		{"morning too late", models.CheckinMorning, time.Date(2023, 6, 10, 14, 0, 0, 0, wib), false},
		{"evening inside", models.CheckinEvening, time.Date(2023, 6, 10, 20, 30, 0, 0, wib), true},
		{"evening before start", models.CheckinEvening, time.Date(2023, 6, 10, 15, 59, 59, 0, wib), false},
		{"evening at end is excluded", models.CheckinEvening, time.Date(2023, 6, 10, 23, 0, 0, 0, wib), false},
	}
	for _, tc := range cases {
		if got := IsWithinWindow(tc.checkinType, tc.at); got != tc.want {
			t.Errorf("%s: IsWithinWindow(%s, %v) = %v, want %v", tc.name, tc.checkinType, tc.at, got, tc.want)
		}
	}
}
