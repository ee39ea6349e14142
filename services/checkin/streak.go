package checkin

import (
	"context"

	"github.com/modentca/modentca-api/models"
)

// StreakService maintains the consecutive-day state machine. Transitions
// are driven exclusively by the daily settlement job, never by the check-in
// request path.
type StreakService struct {
	streaks StreakRepository
	clock   Clock
}

// NewStreakService creates a StreakService.
func NewStreakService(streaks StreakRepository, clock Clock) *StreakService {
	return &StreakService{streaks: streaks, clock: clock}
}

// Advance increments the streak by one day, creating the row at day 1 when
// absent.
func (s *StreakService) Advance(ctx context.Context, userID uint) error {
	st, err := s.streaks.Get(ctx, userID)
	if err != nil {
		return err
	}
	if st == nil {
		return s.streaks.Create(ctx, &models.ConsecutiveCheckin{UserID: userID, Day: 1})
	}
	st.Day++
	return s.streaks.Update(ctx, st)
}

// Reset breaks the streak. The high-water mark is raised only when the
// streak being broken beat the previous record; day and lastBreak are reset
// every time.
func (s *StreakService) Reset(ctx context.Context, userID uint) error {
	st, err := s.streaks.Get(ctx, userID)
	if err != nil {
		return err
	}
	if st == nil {
		return s.streaks.Create(ctx, &models.ConsecutiveCheckin{UserID: userID, Day: 0})
	}
	if st.ConsecutiveDayRecord < st.Day {
		st.ConsecutiveDayRecord = st.Day
	}
	now := s.clock.Now()
	st.LastBreak = &now
	st.Day = 0
	return s.streaks.Update(ctx, st)
}

// Current returns the user's streak state, ErrNotFound when no row exists.
func (s *StreakService) Current(ctx context.Context, userID uint) (*models.ConsecutiveCheckin, error) {
	st, err := s.streaks.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNotFound
	}
	return st, nil
}
