package checkin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modentca/modentca-api/models"
	"github.com/modentca/modentca-api/utils"
)

// SettlementSummary reports what one settlement run did.
type SettlementSummary struct {
	RanAt     time.Time `json:"ranAt"`
	Processed int       `json:"processed"`
	Advanced  int       `json:"advanced"`
	Resets    int       `json:"resets"`
	Penalties int       `json:"penalties"`
	Failures  int       `json:"failures"`
}

// SettlementService runs the daily batch pass: for every user it penalizes
// each missed window of the current day and advances or resets the streak.
// Users are processed sequentially; a failure on one user is logged and the
// batch continues, since no transactional boundary spans the per-user steps.
type SettlementService struct {
	users   UserRepository
	ledger  *LedgerService
	points  *PointService
	history PointHistoryRepository
	streaks *StreakService
	clock   Clock
}

// NewSettlementService creates a SettlementService.
func NewSettlementService(users UserRepository, ledger *LedgerService, points *PointService, history PointHistoryRepository, streaks *StreakService, clock Clock) *SettlementService {
	return &SettlementService{users: users, ledger: ledger, points: points, history: history, streaks: streaks, clock: clock}
}

// Run settles the current day for all users.
func (s *SettlementService) Run(ctx context.Context) (SettlementSummary, error) {
	now := s.clock.Now()
	summary := SettlementSummary{RanAt: now}

	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return summary, err
	}

	for _, id := range ids {
		penalties, advanced, err := s.settleUser(ctx, id, now)
		if err != nil {
			summary.Failures++
			if utils.Sugar != nil {
				utils.Sugar.Warnf("settlement failed for user %d: %v", id, err)
			}
			continue
		}
		summary.Processed++
		summary.Penalties += penalties
		if advanced {
			summary.Advanced++
		} else {
			summary.Resets++
		}
	}
	if utils.Sugar != nil {
		utils.Sugar.Infof("settlement run done: processed=%d advanced=%d resets=%d penalties=%d failures=%d",
			summary.Processed, summary.Advanced, summary.Resets, summary.Penalties, summary.Failures)
	}
	return summary, nil
}

// settleUser applies penalties for day's missed windows and moves the
// streak. A user who missed both windows is penalized twice in one run.
func (s *SettlementService) settleUser(ctx context.Context, userID uint, day time.Time) (int, bool, error) {
	penalties := 0
	anyChecked := false
	for _, checkinType := range []string{models.CheckinMorning, models.CheckinEvening} {
		checked, err := s.ledger.HasCheckedIn(ctx, userID, checkinType, day)
		if err != nil {
			return penalties, false, err
		}
		if checked {
			anyChecked = true
			continue
		}
		if _, err := s.points.Reduce(ctx, userID, MissedWindowPenalty); err != nil {
			return penalties, false, err
		}
		if err := s.history.Create(ctx, &models.PointHistory{
			UserID: userID,
			Point:  -MissedWindowPenalty,
			Type:   models.PointOut,
		}); err != nil {
			return penalties, false, err
		}
		penalties++
	}

	if anyChecked {
		return penalties, true, s.streaks.Advance(ctx, userID)
	}
	return penalties, false, s.streaks.Reset(ctx, userID)
}

// StartScheduler fires Run once per day at the given local "HH:MM". It is
// best-effort; an external cron can call the admin settlement endpoint
// instead.
func (s *SettlementService) StartScheduler(at string) error {
	hour, minute, err := parseClockTime(at)
	if err != nil {
		return err
	}
	go func() {
		for {
			now := s.clock.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
			if !next.After(now) {
				next = next.AddDate(0, 0, 1)
			}
			time.Sleep(next.Sub(now))

			if _, err := s.Run(context.Background()); err != nil {
				if utils.Sugar != nil {
					utils.Sugar.Errorf("scheduled settlement run failed: %v", err)
				}
			}
		}
	}()
	return nil
}

func parseClockTime(at string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(at), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid settlement time %q", at)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid settlement hour %q", at)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid settlement minute %q", at)
	}
	return hour, minute, nil
}
