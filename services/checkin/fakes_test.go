package checkin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/modentca/modentca-api/models"
)

// fixedClock returns a constant moment, letting tests pin "now".
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

var wib = time.FixedZone("WIB", 7*60*60)

// fakeCheckinRepo is an in-memory CheckinRepository. It enforces the same
// unique (user, type, day) constraint the MySQL schema carries.
type fakeCheckinRepo struct {
	mu     sync.Mutex
	recs   []models.Checkin
	nextID uint
}

func newFakeCheckinRepo() *fakeCheckinRepo { return &fakeCheckinRepo{} }

func (f *fakeCheckinRepo) Create(ctx context.Context, rec *models.Checkin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.recs {
		if existing.UserID == rec.UserID && existing.Type == rec.Type && existing.CheckinDate == rec.CheckinDate {
			return fmt.Errorf("Duplicate entry '%d-%s-%s' for key 'uniq_checkin_day'", rec.UserID, rec.Type, rec.CheckinDate)
		}
	}
	f.nextID++
	rec.ID = f.nextID
	rec.CreatedAt = rec.CheckinAt
	f.recs = append(f.recs, *rec)
	return nil
}

func (f *fakeCheckinRepo) ExistsInRange(ctx context.Context, userID uint, checkinType string, start, end time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.recs {
		if rec.UserID == userID && rec.Type == checkinType && !rec.CheckinAt.Before(start) && rec.CheckinAt.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCheckinRepo) FindInRange(ctx context.Context, userID uint, start, end time.Time, desc bool) ([]models.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Checkin
	for _, rec := range f.recs {
		if rec.UserID == userID && !rec.CheckinAt.Before(start) && rec.CheckinAt.Before(end) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].CheckinAt.After(out[j].CheckinAt)
		}
		return out[i].CheckinAt.Before(out[j].CheckinAt)
	})
	return out, nil
}

func (f *fakeCheckinRepo) CountInRange(ctx context.Context, userID uint, start, end time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, rec := range f.recs {
		if rec.UserID == userID && !rec.CheckinAt.Before(start) && rec.CheckinAt.Before(end) {
			count++
		}
	}
	return count, nil
}

// fakePointRepo is an in-memory PointRepository. failFor simulates a store
// error for specific users.
type fakePointRepo struct {
	mu       sync.Mutex
	accounts map[uint]*models.CheckinPoint
	failFor  map[uint]bool
	nextID   uint
}

func newFakePointRepo() *fakePointRepo {
	return &fakePointRepo{accounts: map[uint]*models.CheckinPoint{}, failFor: map[uint]bool{}}
}

func (f *fakePointRepo) Get(ctx context.Context, userID uint) (*models.CheckinPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[userID] {
		return nil, errors.New("store unreachable")
	}
	acc, ok := f.accounts[userID]
	if !ok {
		return nil, nil
	}
	cp := *acc
	return &cp, nil
}

func (f *fakePointRepo) Create(ctx context.Context, acc *models.CheckinPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	acc.ID = f.nextID
	cp := *acc
	f.accounts[acc.UserID] = &cp
	return nil
}

func (f *fakePointRepo) UpdatePoint(ctx context.Context, userID uint, point int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[userID]
	if !ok {
		return errors.New("no account")
	}
	acc.Point = point
	return nil
}

func (f *fakePointRepo) TopBalances(ctx context.Context, limit int) ([]models.CheckinPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.CheckinPoint
	for _, acc := range f.accounts {
		rows = append(rows, *acc)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Point > rows[j].Point })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// fakeHistoryRepo is an in-memory PointHistoryRepository.
type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []models.PointHistory
	nextID  uint
}

func newFakeHistoryRepo() *fakeHistoryRepo { return &fakeHistoryRepo{} }

func (f *fakeHistoryRepo) Create(ctx context.Context, entry *models.PointHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	entry.ID = f.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) FindByUser(ctx context.Context, userID uint) ([]models.PointHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PointHistory
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeHistoryRepo) byUserAndType(userID uint, entryType string) []models.PointHistory {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PointHistory
	for _, e := range f.entries {
		if e.UserID == userID && e.Type == entryType {
			out = append(out, e)
		}
	}
	return out
}

// fakeStreakRepo is an in-memory StreakRepository.
type fakeStreakRepo struct {
	mu     sync.Mutex
	rows   map[uint]*models.ConsecutiveCheckin
	nextID uint
}

func newFakeStreakRepo() *fakeStreakRepo {
	return &fakeStreakRepo{rows: map[uint]*models.ConsecutiveCheckin{}}
}

func (f *fakeStreakRepo) Get(ctx context.Context, userID uint) (*models.ConsecutiveCheckin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.rows[userID]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStreakRepo) Create(ctx context.Context, st *models.ConsecutiveCheckin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	st.ID = f.nextID
	cp := *st
	f.rows[st.UserID] = &cp
	return nil
}

func (f *fakeStreakRepo) Update(ctx context.Context, st *models.ConsecutiveCheckin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *st
	f.rows[st.UserID] = &cp
	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[uint]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) ListIDs(ctx context.Context) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeUserRepo) Find(ctx context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) ListByRegion(ctx context.Context, regionType, regionID string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		var val string
		switch regionType {
		case "province":
			val = u.ProvinceID
		case "city":
			val = u.CityID
		case "district":
			val = u.DistrictID
		case "subString":
			val = u.SubdistrictID
		default:
			return nil, ErrInvalidRegion
		}
		if val == regionID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
