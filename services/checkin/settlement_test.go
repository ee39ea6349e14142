package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/modentca/modentca-api/models"
)

type settlementFixture struct {
	svc      *SettlementService
	ledger   *LedgerService
	checkins *fakeCheckinRepo
	points   *fakePointRepo
	history  *fakeHistoryRepo
	streaks  *fakeStreakRepo
	users    *fakeUserRepo
	clock    fixedClock
}

func newSettlementFixture(now time.Time, users ...*models.User) *settlementFixture {
	f := &settlementFixture{
		checkins: newFakeCheckinRepo(),
		points:   newFakePointRepo(),
		history:  newFakeHistoryRepo(),
		streaks:  newFakeStreakRepo(),
		users:    newFakeUserRepo(users...),
		clock:    fixedClock{t: now},
	}
	pointSvc := NewPointService(f.points)
	f.ledger = NewLedgerService(f.checkins, f.history, pointSvc, f.clock)
	streakSvc := NewStreakService(f.streaks, f.clock)
	f.svc = NewSettlementService(f.users, f.ledger, pointSvc, f.history, streakSvc, f.clock)
	return f
}

func TestSettlementMissedBothWindows(t *testing.T) {
	runAt := time.Date(2023, 6, 10, 23, 30, 0, 0, wib)
	f := newSettlementFixture(runAt, &models.User{ID: 1, FirstName: "Sinta"})
	ctx := context.Background()

	// Existing streak day=3 with an older, lower record, and some balance.
	f.streaks.Create(ctx, &models.ConsecutiveCheckin{UserID: 1, Day: 3, ConsecutiveDayRecord: 1})
	f.points.Create(ctx, &models.CheckinPoint{UserID: 1, Point: 100})

	summary, err := f.svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Processed != 1 || summary.Resets != 1 || summary.Advanced != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// Exactly two -10 penalty rows.
	outs := f.history.byUserAndType(1, models.PointOut)
	if len(outs) != 2 {
		t.Fatalf("penalty rows = %d, want 2", len(outs))
	}
	for _, e := range outs {
		if e.Point != -10 {
			t.Fatalf("penalty delta = %d, want -10", e.Point)
		}
	}

	bal, _ := NewPointService(f.points).Balance(ctx, 1)
	if bal != 80 {
		t.Fatalf("balance = %d, want 80", bal)
	}

	st, _ := f.streaks.Get(ctx, 1)
	if st.Day != 0 {
		t.Fatalf("day = %d, want 0", st.Day)
	}
	if st.ConsecutiveDayRecord != 3 {
		t.Fatalf("record = %d, want 3", st.ConsecutiveDayRecord)
	}
	if st.LastBreak == nil || !st.LastBreak.Equal(runAt) {
		t.Fatalf("lastBreak = %v, want %v", st.LastBreak, runAt)
	}
}

func TestSettlementBothWindowsChecked(t *testing.T) {
	runAt := time.Date(2023, 6, 10, 23, 30, 0, 0, wib)
	f := newSettlementFixture(runAt, &models.User{ID: 1, FirstName: "Sinta"})
	ctx := context.Background()

	morning := NewLedgerService(f.checkins, f.history, NewPointService(f.points),
		fixedClock{t: time.Date(2023, 6, 10, 9, 0, 0, 0, wib)})
	if _, err := morning.RecordCheckIn(ctx, 1, models.CheckinMorning); err != nil {
		t.Fatalf("morning check-in failed: %v", err)
	}
	evening := NewLedgerService(f.checkins, f.history, NewPointService(f.points),
		fixedClock{t: time.Date(2023, 6, 10, 19, 0, 0, 0, wib)})
	if _, err := evening.RecordCheckIn(ctx, 1, models.CheckinEvening); err != nil {
		t.Fatalf("evening check-in failed: %v", err)
	}

	summary, err := f.svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Advanced != 1 || summary.Resets != 0 || summary.Penalties != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if outs := f.history.byUserAndType(1, models.PointOut); len(outs) != 0 {
		t.Fatalf("penalty rows = %d, want 0", len(outs))
	}
	st, _ := f.streaks.Get(ctx, 1)
	if st == nil || st.Day != 1 {
		t.Fatalf("streak = %+v, want day 1", st)
	}
}

func TestSettlementOneWindowChecked(t *testing.T) {
	runAt := time.Date(2023, 6, 10, 23, 30, 0, 0, wib)
	f := newSettlementFixture(runAt, &models.User{ID: 1, FirstName: "Sinta"})
	ctx := context.Background()

	morning := NewLedgerService(f.checkins, f.history, NewPointService(f.points),
		fixedClock{t: time.Date(2023, 6, 10, 9, 0, 0, 0, wib)})
	if _, err := morning.RecordCheckIn(ctx, 1, models.CheckinMorning); err != nil {
		t.Fatalf("morning check-in failed: %v", err)
	}

	summary, err := f.svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Advanced != 1 || summary.Penalties != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	outs := f.history.byUserAndType(1, models.PointOut)
	if len(outs) != 1 || outs[0].Point != -10 {
		t.Fatalf("penalty rows = %+v, want one -10", outs)
	}
}

func TestSettlementIsolatesPerUserFailures(t *testing.T) {
	runAt := time.Date(2023, 6, 10, 23, 30, 0, 0, wib)
	f := newSettlementFixture(runAt,
		&models.User{ID: 1, FirstName: "Sinta"},
		&models.User{ID: 2, FirstName: "Bayu"},
		&models.User{ID: 3, FirstName: "Citra"},
	)
	ctx := context.Background()

	// User 2's point rows are unreachable; the batch must continue past it.
	f.points.failFor[2] = true

	summary, err := f.svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Failures != 1 {
		t.Fatalf("failures = %d, want 1", summary.Failures)
	}
	if summary.Processed != 2 {
		t.Fatalf("processed = %d, want 2", summary.Processed)
	}
	// Users 1 and 3 were still penalized and reset.
	for _, id := range []uint{1, 3} {
		if outs := f.history.byUserAndType(id, models.PointOut); len(outs) != 2 {
			t.Fatalf("user %d penalty rows = %d, want 2", id, len(outs))
		}
		st, _ := f.streaks.Get(ctx, id)
		if st == nil || st.Day != 0 {
			t.Fatalf("user %d streak = %+v, want reset row", id, st)
		}
	}
}

func TestParseClockTime(t *testing.T) {
	if h, m, err := parseClockTime("23:30"); err != nil || h != 23 || m != 30 {
		t.Fatalf("parseClockTime(23:30) = %d:%d, %v", h, m, err)
	}
	if _, _, err := parseClockTime("24:00"); err == nil {
		t.Fatal("expected error for hour 24")
	}
	if _, _, err := parseClockTime("half past nine"); err == nil {
		t.Fatal("expected error for garbage input")
	}
}
