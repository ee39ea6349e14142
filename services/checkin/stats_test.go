package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/modentca/modentca-api/models"
)

type statsFixture struct {
	svc      *StatsService
	checkins *fakeCheckinRepo
	points   *fakePointRepo
	streaks  *fakeStreakRepo
	users    *fakeUserRepo
}

func newStatsFixture(now time.Time, users ...*models.User) *statsFixture {
	f := &statsFixture{
		checkins: newFakeCheckinRepo(),
		points:   newFakePointRepo(),
		streaks:  newFakeStreakRepo(),
		users:    newFakeUserRepo(users...),
	}
	f.svc = NewStatsService(f.checkins, NewPointService(f.points), f.streaks, f.users, fixedClock{t: now})
	return f
}

// seedCheckin inserts a record directly, bypassing window validation.
func (f *statsFixture) seedCheckin(userID uint, checkinType string, at time.Time) {
	f.checkins.Create(context.Background(), &models.Checkin{
		UserID:      userID,
		Type:        checkinType,
		CheckinAt:   at,
		CheckinDate: at.Format("2006-01-02"),
	})
}

func TestMonthlyCheckInPercentage(t *testing.T) {
	now := time.Date(2023, 6, 20, 12, 0, 0, 0, wib)
	f := newStatsFixture(now)

	// One morning and one evening record on each of the first 10 days of a
	// 30-day month: floor((20/2/30)*100) = 33.
	for day := 1; day <= 10; day++ {
		f.seedCheckin(1, models.CheckinMorning, time.Date(2023, 6, day, 9, 0, 0, 0, wib))
		f.seedCheckin(1, models.CheckinEvening, time.Date(2023, 6, day, 19, 0, 0, 0, wib))
	}

	pct, err := f.svc.MonthlyCheckInPercentage(context.Background(), 1, 2023, time.June)
	if err != nil {
		t.Fatalf("MonthlyCheckInPercentage failed: %v", err)
	}
	if pct != 33 {
		t.Fatalf("percentage = %d, want 33", pct)
	}
}

func TestMonthlyCheckInPercentageSingleWindowCapsNearFifty(t *testing.T) {
	now := time.Date(2023, 6, 30, 12, 0, 0, 0, wib)
	f := newStatsFixture(now)

	for day := 1; day <= 30; day++ {
		f.seedCheckin(1, models.CheckinMorning, time.Date(2023, 6, day, 9, 0, 0, 0, wib))
	}
	pct, err := f.svc.MonthlyCheckInPercentage(context.Background(), 1, 2023, time.June)
	if err != nil {
		t.Fatalf("MonthlyCheckInPercentage failed: %v", err)
	}
	if pct != 50 {
		t.Fatalf("percentage = %d, want 50", pct)
	}
}

func TestConsecutiveDaysZeroWithoutRecord(t *testing.T) {
	f := newStatsFixture(time.Date(2023, 6, 20, 12, 0, 0, 0, wib))
	days, err := f.svc.ConsecutiveDays(context.Background(), 1)
	if err != nil {
		t.Fatalf("ConsecutiveDays failed: %v", err)
	}
	if days != 0 {
		t.Fatalf("days = %d, want 0", days)
	}
}

func TestRegionalAverage(t *testing.T) {
	now := time.Date(2023, 6, 30, 12, 0, 0, 0, wib)
	f := newStatsFixture(now,
		&models.User{ID: 1, FirstName: "Sinta", ProvinceID: "32"},
		&models.User{ID: 2, FirstName: "Bayu", ProvinceID: "32"},
		&models.User{ID: 3, FirstName: "Citra", ProvinceID: "31"},
	)
	ctx := context.Background()

	// User 1: both windows all 30 days -> 100. User 2: nothing -> 0.
	for day := 1; day <= 30; day++ {
		f.seedCheckin(1, models.CheckinMorning, time.Date(2023, 6, day, 9, 0, 0, 0, wib))
		f.seedCheckin(1, models.CheckinEvening, time.Date(2023, 6, day, 19, 0, 0, 0, wib))
	}

	avg, err := f.svc.RegionalAverage(ctx, "province", "32", 2023, time.June)
	if err != nil {
		t.Fatalf("RegionalAverage failed: %v", err)
	}
	if avg != 50 {
		t.Fatalf("average = %v, want 50", avg)
	}

	if _, err := f.svc.RegionalAverage(ctx, "province", "99", 2023, time.June); err != ErrNotFound {
		t.Fatalf("empty region: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.RegionalAverage(ctx, "galaxy", "1", 2023, time.June); err != ErrInvalidRegion {
		t.Fatalf("bad region type: expected ErrInvalidRegion, got %v", err)
	}
}

func TestWeeklyStatusNumericSums(t *testing.T) {
	// 2023-06-14 is a Wednesday; its ISO week runs Mon 12th .. Sun 18th.
	ref := time.Date(2023, 6, 14, 12, 0, 0, 0, wib)
	f := newStatsFixture(ref)
	ctx := context.Background()

	f.seedCheckin(1, models.CheckinMorning, time.Date(2023, 6, 12, 9, 0, 0, 0, wib))
	f.seedCheckin(1, models.CheckinEvening, time.Date(2023, 6, 12, 19, 0, 0, 0, wib))
	f.seedCheckin(1, models.CheckinEvening, time.Date(2023, 6, 14, 19, 0, 0, 0, wib))

	week, err := f.svc.WeeklyStatus(ctx, 1, ref)
	if err != nil {
		t.Fatalf("WeeklyStatus failed: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("week length = %d, want 7", len(week))
	}
	if week[0].Date != "2023-06-12" || week[6].Date != "2023-06-18" {
		t.Fatalf("week bounds wrong: %s .. %s", week[0].Date, week[6].Date)
	}
	if week[0].Completed != 2 {
		t.Fatalf("Monday completed = %d, want 2", week[0].Completed)
	}
	if week[2].Completed != 1 {
		t.Fatalf("Wednesday completed = %d, want 1", week[2].Completed)
	}
	if week[1].Completed != 0 || week[6].Completed != 0 {
		t.Fatalf("empty days not zero: %+v", week)
	}
}

func TestUserSummary(t *testing.T) {
	now := time.Date(2023, 6, 30, 12, 0, 0, 0, wib)
	f := newStatsFixture(now, &models.User{ID: 1, FirstName: "Sinta"})
	ctx := context.Background()

	f.points.Create(ctx, &models.CheckinPoint{UserID: 1, Point: 120})
	f.streaks.Create(ctx, &models.ConsecutiveCheckin{UserID: 1, Day: 4})
	for day := 1; day <= 15; day++ {
		f.seedCheckin(1, models.CheckinMorning, time.Date(2023, 6, day, 9, 0, 0, 0, wib))
		f.seedCheckin(1, models.CheckinEvening, time.Date(2023, 6, day, 19, 0, 0, 0, wib))
	}

	sum, err := f.svc.UserSummary(ctx, 1)
	if err != nil {
		t.Fatalf("UserSummary failed: %v", err)
	}
	if sum.TotalPoint != 120 || sum.ConsecutiveCheckInDay != 4 || sum.CheckInPercentage != 50 {
		t.Fatalf("summary = %+v, want {120 4 50}", sum)
	}
}

func TestLeaderboardRanksByPoints(t *testing.T) {
	now := time.Date(2023, 6, 30, 12, 0, 0, 0, wib)
	f := newStatsFixture(now,
		&models.User{ID: 1, FirstName: "Sinta", LastName: "Dewi"},
		&models.User{ID: 2, FirstName: "Bayu"},
	)
	ctx := context.Background()

	f.points.Create(ctx, &models.CheckinPoint{UserID: 1, Point: 40})
	f.points.Create(ctx, &models.CheckinPoint{UserID: 2, Point: 90})
	f.streaks.Create(ctx, &models.ConsecutiveCheckin{UserID: 2, Day: 6})

	entries, err := f.svc.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].UserID != 2 || entries[0].Point != 90 || entries[0].ConsecutiveDay != 6 {
		t.Fatalf("top entry = %+v, want Bayu with 90", entries[0])
	}
	if entries[0].Name != "Bayu" || entries[1].Name != "Sinta Dewi" {
		t.Fatalf("names = %q, %q", entries[0].Name, entries[1].Name)
	}
}
