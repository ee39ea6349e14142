package checkin

import (
	"context"
	"time"

	"github.com/modentca/modentca-api/models"
)

// WeekDayStatus reports one day of the weekly statistic. Completed is the
// number of completed windows that day, 0 to 2 (the numeric-sum encoding of
// the API, not a boolean).
type WeekDayStatus struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
}

// Summary is the per-user dashboard aggregate.
type Summary struct {
	TotalPoint            int `json:"totalPoint"`
	ConsecutiveCheckInDay int `json:"consecutiveCheckInDay"`
	CheckInPercentage     int `json:"checkInPercentage"`
}

// LeaderboardEntry is one ranked row of the admin leaderboard.
type LeaderboardEntry struct {
	UserID         uint   `json:"userId"`
	Name           string `json:"name"`
	Point          int    `json:"point"`
	ConsecutiveDay int    `json:"consecutiveDay"`
}

// StatsService derives percentages and leaderboards from the ledger, point
// account and streak state without mutating them.
type StatsService struct {
	checkins CheckinRepository
	points   *PointService
	streaks  StreakRepository
	users    UserRepository
	clock    Clock
}

// NewStatsService creates a StatsService.
func NewStatsService(checkins CheckinRepository, points *PointService, streaks StreakRepository, users UserRepository, clock Clock) *StatsService {
	return &StatsService{checkins: checkins, points: points, streaks: streaks, users: users, clock: clock}
}

// TotalPoints is the current point balance.
func (s *StatsService) TotalPoints(ctx context.Context, userID uint) (int, error) {
	return s.points.Balance(ctx, userID)
}

// ConsecutiveDays is the current streak length, 0 when no streak row exists.
func (s *StatsService) ConsecutiveDays(ctx context.Context, userID uint) (int, error) {
	st, err := s.streaks.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if st == nil {
		return 0, nil
	}
	return st.Day, nil
}

// MonthlyCheckInPercentage is floor(records / 2 / daysInMonth * 100). The
// numerator counts morning and evening records together, so a user doing
// only one window a day caps near 50.
func (s *StatsService) MonthlyCheckInPercentage(ctx context.Context, userID uint, year int, month time.Month) (int, error) {
	start, end := monthRange(year, month, s.clock.Now().Location())
	count, err := s.checkins.CountInRange(ctx, userID, start, end)
	if err != nil {
		return 0, err
	}
	days := end.AddDate(0, 0, -1).Day()
	return int(count) * 50 / days, nil
}

// RegionalAverage averages MonthlyCheckInPercentage over all users whose
// address matches the region filter. ErrNotFound when no users match.
func (s *StatsService) RegionalAverage(ctx context.Context, regionType, regionID string, year int, month time.Month) (float64, error) {
	users, err := s.users.ListByRegion(ctx, regionType, regionID)
	if err != nil {
		return 0, err
	}
	if len(users) == 0 {
		return 0, ErrNotFound
	}
	sum := 0
	for _, u := range users {
		pct, err := s.MonthlyCheckInPercentage(ctx, u.ID, year, month)
		if err != nil {
			return 0, err
		}
		sum += pct
	}
	return float64(sum) / float64(len(users)), nil
}

// WeeklyStatus reports the completed-window count for each of the 7 days of
// the ISO week (Monday first) containing ref.
func (s *StatsService) WeeklyStatus(ctx context.Context, userID uint, ref time.Time) ([]WeekDayStatus, error) {
	offset := (int(ref.Weekday()) + 6) % 7 // days since Monday
	y, m, d := ref.Date()
	monday := time.Date(y, m, d, 0, 0, 0, 0, ref.Location()).AddDate(0, 0, -offset)

	week := make([]WeekDayStatus, 0, 7)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		completed := 0
		for _, checkinType := range []string{models.CheckinMorning, models.CheckinEvening} {
			w, err := WindowFor(checkinType, day)
			if err != nil {
				return nil, err
			}
			exists, err := s.checkins.ExistsInRange(ctx, userID, checkinType, w.Start, w.End)
			if err != nil {
				return nil, err
			}
			if exists {
				completed++
			}
		}
		week = append(week, WeekDayStatus{Date: dayKey(day), Completed: completed})
	}
	return week, nil
}

// UserSummary bundles total points, streak length and the current month's
// percentage for the summary endpoint.
func (s *StatsService) UserSummary(ctx context.Context, userID uint) (Summary, error) {
	total, err := s.TotalPoints(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	days, err := s.ConsecutiveDays(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	now := s.clock.Now()
	pct, err := s.MonthlyCheckInPercentage(ctx, userID, now.Year(), now.Month())
	if err != nil {
		return Summary{}, err
	}
	return Summary{TotalPoint: total, ConsecutiveCheckInDay: days, CheckInPercentage: pct}, nil
}

// Leaderboard ranks users by point balance, carrying the streak length for
// display.
func (s *StatsService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	balances, err := s.points.points.TopBalances(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(balances))
	for _, b := range balances {
		entry := LeaderboardEntry{UserID: b.UserID, Point: b.Point}
		if user, err := s.users.Find(ctx, b.UserID); err == nil && user != nil {
			entry.Name = displayName(user)
		}
		if st, err := s.streaks.Get(ctx, b.UserID); err == nil && st != nil {
			entry.ConsecutiveDay = st.Day
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func displayName(u *models.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
