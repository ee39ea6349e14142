package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/modentca/modentca-api/models"
)

func newLedgerFixture(now time.Time) (*LedgerService, *fakeCheckinRepo, *fakePointRepo, *fakeHistoryRepo) {
	checkins := newFakeCheckinRepo()
	points := newFakePointRepo()
	history := newFakeHistoryRepo()
	svc := NewLedgerService(checkins, history, NewPointService(points), fixedClock{t: now})
	return svc, checkins, points, history
}

func TestRecordCheckInHappyPath(t *testing.T) {
	now := time.Date(2023, 6, 10, 9, 0, 0, 0, wib)
	svc, checkins, points, history := newLedgerFixture(now)
	ctx := context.Background()

	rec, err := svc.RecordCheckIn(ctx, 1, models.CheckinMorning)
	if err != nil {
		t.Fatalf("RecordCheckIn failed: %v", err)
	}
	if rec.Type != models.CheckinMorning || !rec.CheckinAt.Equal(now) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(checkins.recs) != 1 {
		t.Fatalf("stored %d records, want 1", len(checkins.recs))
	}

	// Fresh account is seeded at 5.
	bal, _ := NewPointService(points).Balance(ctx, 1)
	if bal != 5 {
		t.Fatalf("balance = %d, want 5", bal)
	}

	entries := history.byUserAndType(1, models.PointIn)
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if entries[0].Point != 5 {
		t.Fatalf("history delta = %d, want 5", entries[0].Point)
	}
	if entries[0].Checkin.CheckinAt == nil || !entries[0].Checkin.CheckinAt.Equal(now) {
		t.Fatalf("history snapshot missing check-in time: %+v", entries[0].Checkin)
	}
}

func TestRecordCheckInDuplicate(t *testing.T) {
	now := time.Date(2023, 6, 10, 9, 0, 0, 0, wib)
	svc, checkins, _, _ := newLedgerFixture(now)
	ctx := context.Background()

	if _, err := svc.RecordCheckIn(ctx, 1, models.CheckinMorning); err != nil {
		t.Fatalf("first check-in failed: %v", err)
	}

	later := NewLedgerService(checkins, newFakeHistoryRepo(), NewPointService(newFakePointRepo()),
		fixedClock{t: time.Date(2023, 6, 10, 10, 0, 0, 0, wib)})
	if _, err := later.RecordCheckIn(ctx, 1, models.CheckinMorning); err != ErrAlreadyCheckedIn {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
	if len(checkins.recs) != 1 {
		t.Fatalf("stored %d records after duplicate, want 1", len(checkins.recs))
	}
}

func TestRecordCheckInOutOfWindow(t *testing.T) {
	now := time.Date(2023, 6, 10, 14, 0, 0, 0, wib)
	svc, checkins, points, _ := newLedgerFixture(now)
	ctx := context.Background()

	if _, err := svc.RecordCheckIn(ctx, 1, models.CheckinMorning); err != ErrOutOfWindow {
		t.Fatalf("expected ErrOutOfWindow, got %v", err)
	}
	if len(checkins.recs) != 0 {
		t.Fatal("record created despite out-of-window rejection")
	}
	if bal, _ := NewPointService(points).Balance(ctx, 1); bal != 0 {
		t.Fatalf("balance changed to %d despite rejection", bal)
	}
}

func TestRecordCheckInInvalidType(t *testing.T) {
	svc, _, _, _ := newLedgerFixture(time.Date(2023, 6, 10, 9, 0, 0, 0, wib))
	if _, err := svc.RecordCheckIn(context.Background(), 1, "noon"); err != ErrInvalidType {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestRecordCheckInAtBackdates(t *testing.T) {
	now := time.Date(2023, 6, 15, 9, 0, 0, 0, wib)
	svc, _, _, _ := newLedgerFixture(now)
	ctx := context.Background()

	day := time.Date(2023, 6, 1, 0, 0, 0, 0, wib)
	rec, err := svc.RecordCheckInAt(ctx, 1, models.CheckinEvening, day)
	if err != nil {
		t.Fatalf("RecordCheckInAt failed: %v", err)
	}
	if rec.CheckinAt.Day() != 1 || rec.CheckinAt.Hour() != 16 {
		t.Fatalf("backdated check-in at %v, want June 1 16:00", rec.CheckinAt)
	}

	if _, err := svc.RecordCheckInAt(ctx, 1, models.CheckinEvening, day); err != ErrAlreadyCheckedIn {
		t.Fatalf("expected ErrAlreadyCheckedIn on same backdated day, got %v", err)
	}
}

func TestHistoryEmptyAsymmetry(t *testing.T) {
	now := time.Date(2023, 6, 15, 9, 0, 0, 0, wib)
	svc, _, _, _ := newLedgerFixture(now)
	ctx := context.Background()

	// Date-filtered lookup on an empty month is a not-found.
	if _, err := svc.History(ctx, 1, 2023, time.May, true); err != ErrNotFound {
		t.Fatalf("filtered empty history: expected ErrNotFound, got %v", err)
	}
	// The unfiltered path returns an empty list instead.
	recs, err := svc.History(ctx, 1, 2023, time.May, false)
	if err != nil {
		t.Fatalf("unfiltered empty history failed: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty list, got %d", len(recs))
	}
}

func TestHistoryOrderedDescending(t *testing.T) {
	now := time.Date(2023, 6, 2, 9, 0, 0, 0, wib)
	svc, checkins, points, history := newLedgerFixture(now)
	ctx := context.Background()

	if _, err := svc.RecordCheckIn(ctx, 1, models.CheckinMorning); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	next := NewLedgerService(checkins, history, NewPointService(points),
		fixedClock{t: time.Date(2023, 6, 3, 17, 0, 0, 0, wib)})
	if _, err := next.RecordCheckIn(ctx, 1, models.CheckinEvening); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	recs, err := next.History(ctx, 1, 2023, time.June, true)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if !recs[0].CheckinAt.After(recs[1].CheckinAt) {
		t.Fatal("history not ordered newest first")
	}
}

func TestStatusByDateIndependentOfNow(t *testing.T) {
	now := time.Date(2023, 6, 10, 9, 0, 0, 0, wib)
	svc, checkins, points, history := newLedgerFixture(now)
	ctx := context.Background()

	if _, err := svc.RecordCheckIn(ctx, 1, models.CheckinMorning); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	// Query from a different day entirely.
	later := NewLedgerService(checkins, history, NewPointService(points),
		fixedClock{t: time.Date(2023, 7, 20, 3, 0, 0, 0, wib)})
	st, err := later.StatusByDate(ctx, 1, time.Date(2023, 6, 10, 0, 0, 0, 0, wib))
	if err != nil {
		t.Fatalf("StatusByDate failed: %v", err)
	}
	if !st.Morning || st.Evening {
		t.Fatalf("status = %+v, want morning only", st)
	}
	if st.Date != "2023-06-10" {
		t.Fatalf("status date = %q, want 2023-06-10", st.Date)
	}
}

func TestStatusForMonthCoversEveryDay(t *testing.T) {
	now := time.Date(2023, 6, 10, 9, 0, 0, 0, wib)
	svc, _, _, _ := newLedgerFixture(now)

	statuses, err := svc.StatusForMonth(context.Background(), 1, now)
	if err != nil {
		t.Fatalf("StatusForMonth failed: %v", err)
	}
	if len(statuses) != 30 {
		t.Fatalf("June statuses = %d days, want 30", len(statuses))
	}
	if statuses[0].Date != "2023-06-01" || statuses[29].Date != "2023-06-30" {
		t.Fatalf("month bounds wrong: first %s last %s", statuses[0].Date, statuses[29].Date)
	}
}
