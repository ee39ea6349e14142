package checkin

import (
	"context"
	"time"

	"github.com/modentca/modentca-api/models"
)

// DayStatus reports whether each window of one local day has a check-in.
type DayStatus struct {
	Date    string `json:"date"`
	Morning bool   `json:"morning"`
	Evening bool   `json:"evening"`
}

// LedgerService records check-ins and answers "did user X check in on day Y".
// A successful check-in appends a +5 point-history entry and credits the
// point account. The three writes are sequential, not atomic; the unique
// index on (user, type, day) backstops the dedupe read.
type LedgerService struct {
	checkins CheckinRepository
	history  PointHistoryRepository
	points   *PointService
	clock    Clock
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(checkins CheckinRepository, history PointHistoryRepository, points *PointService, clock Clock) *LedgerService {
	return &LedgerService{checkins: checkins, history: history, points: points, clock: clock}
}

// RecordCheckIn validates the window against the current time, dedupes, and
// stores the check-in with its point side effects.
func (s *LedgerService) RecordCheckIn(ctx context.Context, userID uint, checkinType string) (*models.Checkin, error) {
	now := s.clock.Now()
	if !IsWithinWindow(checkinType, now) {
		if _, err := WindowFor(checkinType, now); err != nil {
			return nil, err
		}
		return nil, ErrOutOfWindow
	}
	return s.record(ctx, userID, checkinType, now)
}

// RecordCheckInAt stores a check-in for an arbitrary day without the
// current-time window gate. Used by the admin backdate endpoint; duplicate
// prevention still applies against that day's window.
func (s *LedgerService) RecordCheckInAt(ctx context.Context, userID uint, checkinType string, day time.Time) (*models.Checkin, error) {
	w, err := WindowFor(checkinType, day)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, userID, checkinType, w.Start)
}

func (s *LedgerService) record(ctx context.Context, userID uint, checkinType string, at time.Time) (*models.Checkin, error) {
	w, err := WindowFor(checkinType, at)
	if err != nil {
		return nil, err
	}
	exists, err := s.checkins.ExistsInRange(ctx, userID, checkinType, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyCheckedIn
	}

	rec := &models.Checkin{
		UserID:      userID,
		Type:        checkinType,
		CheckinAt:   at,
		CheckinDate: dayKey(at),
	}
	if err := s.checkins.Create(ctx, rec); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}

	snapshotAt := rec.CheckinAt
	if err := s.history.Create(ctx, &models.PointHistory{
		UserID: userID,
		Point:  RewardPoints,
		Type:   models.PointIn,
		Checkin: models.CheckinSnapshot{
			CheckinAt: &snapshotAt,
			Type:      rec.Type,
		},
	}); err != nil {
		return nil, err
	}
	if _, err := s.points.Add(ctx, userID, RewardPoints); err != nil {
		return nil, err
	}
	return rec, nil
}

// HasCheckedIn reports whether a check-in of the given type exists inside
// day's window, independent of the current time.
func (s *LedgerService) HasCheckedIn(ctx context.Context, userID uint, checkinType string, day time.Time) (bool, error) {
	w, err := WindowFor(checkinType, day)
	if err != nil {
		return false, err
	}
	return s.checkins.ExistsInRange(ctx, userID, checkinType, w.Start, w.End)
}

// History returns the user's check-ins of the given month, newest first.
// When dateFiltered is set and the month holds no rows the result is
// ErrNotFound; the unfiltered statistics path gets an empty list instead.
// This asymmetry is part of the API contract.
func (s *LedgerService) History(ctx context.Context, userID uint, year int, month time.Month, dateFiltered bool) ([]models.Checkin, error) {
	start, end := monthRange(year, month, s.clock.Now().Location())
	recs, err := s.checkins.FindInRange(ctx, userID, start, end, true)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 && dateFiltered {
		return nil, ErrNotFound
	}
	return recs, nil
}

// PointHistory returns the user's point audit trail, newest first,
// ErrNotFound when empty.
func (s *LedgerService) PointHistory(ctx context.Context, userID uint) ([]models.PointHistory, error) {
	entries, err := s.history.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries, nil
}

// StatusByDate checks both windows of one local day.
func (s *LedgerService) StatusByDate(ctx context.Context, userID uint, day time.Time) (DayStatus, error) {
	morning, err := s.HasCheckedIn(ctx, userID, models.CheckinMorning, day)
	if err != nil {
		return DayStatus{}, err
	}
	evening, err := s.HasCheckedIn(ctx, userID, models.CheckinEvening, day)
	if err != nil {
		return DayStatus{}, err
	}
	return DayStatus{Date: dayKey(day), Morning: morning, Evening: evening}, nil
}

// StatusForMonth returns one DayStatus per calendar day of ref's month.
func (s *LedgerService) StatusForMonth(ctx context.Context, userID uint, ref time.Time) ([]DayStatus, error) {
	start, end := monthRange(ref.Year(), ref.Month(), ref.Location())
	statuses := make([]DayStatus, 0, 31)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		st, err := s.StatusByDate(ctx, userID, day)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// monthRange returns the half-open [first day, first day of next month)
// interval of a month in loc.
func monthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
