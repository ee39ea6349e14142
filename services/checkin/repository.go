package checkin

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/modentca/modentca-api/models"
)

// CheckinRepository is the store of check-in records.
type CheckinRepository interface {
	Create(ctx context.Context, rec *models.Checkin) error
	// ExistsInRange reports whether a check-in of the given type exists for
	// the user with CheckinAt in [start, end).
	ExistsInRange(ctx context.Context, userID uint, checkinType string, start, end time.Time) (bool, error)
	// FindInRange returns the user's check-ins with CheckinAt in
	// [start, end), ordered by CheckinAt descending when desc is true.
	FindInRange(ctx context.Context, userID uint, start, end time.Time, desc bool) ([]models.Checkin, error)
	// CountInRange counts the user's check-ins of both types in [start, end).
	CountInRange(ctx context.Context, userID uint, start, end time.Time) (int64, error)
}

// PointRepository is the store of per-user point balances.
type PointRepository interface {
	// Get returns the user's balance row, or (nil, nil) when absent.
	Get(ctx context.Context, userID uint) (*models.CheckinPoint, error)
	Create(ctx context.Context, acc *models.CheckinPoint) error
	UpdatePoint(ctx context.Context, userID uint, point int) error
	// TopBalances returns up to limit rows ordered by point descending.
	TopBalances(ctx context.Context, limit int) ([]models.CheckinPoint, error)
}

// PointHistoryRepository is the append-only point audit trail.
type PointHistoryRepository interface {
	Create(ctx context.Context, entry *models.PointHistory) error
	// FindByUser returns the user's entries ordered by CreatedAt descending.
	FindByUser(ctx context.Context, userID uint) ([]models.PointHistory, error)
}

// StreakRepository is the store of per-user streak state.
type StreakRepository interface {
	// Get returns the user's streak row, or (nil, nil) when absent.
	Get(ctx context.Context, userID uint) (*models.ConsecutiveCheckin, error)
	Create(ctx context.Context, st *models.ConsecutiveCheckin) error
	Update(ctx context.Context, st *models.ConsecutiveCheckin) error
}

// UserRepository exposes the user rows the engine needs: the settlement
// scan, region cohorts and leaderboard names.
type UserRepository interface {
	ListIDs(ctx context.Context) ([]uint, error)
	Find(ctx context.Context, id uint) (*models.User, error)
	// ListByRegion filters users on the address column named by regionType
	// (province, city, district, subdistrict).
	ListByRegion(ctx context.Context, regionType, regionID string) ([]models.User, error)
}

// --------------------
// GORM implementations
// --------------------

type gormCheckinRepo struct{ db *gorm.DB }

// NewCheckinRepository returns the GORM-backed CheckinRepository.
func NewCheckinRepository(db *gorm.DB) CheckinRepository {
	return &gormCheckinRepo{db: db}
}

func (r *gormCheckinRepo) Create(ctx context.Context, rec *models.Checkin) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *gormCheckinRepo) ExistsInRange(ctx context.Context, userID uint, checkinType string, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Checkin{}).
		Where("user_id = ? AND type = ? AND checkin_at >= ? AND checkin_at < ?", userID, checkinType, start, end).
		Count(&count).Error
	return count > 0, err
}

func (r *gormCheckinRepo) FindInRange(ctx context.Context, userID uint, start, end time.Time, desc bool) ([]models.Checkin, error) {
	order := "checkin_at ASC"
	if desc {
		order = "checkin_at DESC"
	}
	var recs []models.Checkin
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND checkin_at >= ? AND checkin_at < ?", userID, start, end).
		Order(order).
		Find(&recs).Error
	return recs, err
}

func (r *gormCheckinRepo) CountInRange(ctx context.Context, userID uint, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Checkin{}).
		Where("user_id = ? AND checkin_at >= ? AND checkin_at < ?", userID, start, end).
		Count(&count).Error
	return count, err
}

type gormPointRepo struct{ db *gorm.DB }

// NewPointRepository returns the GORM-backed PointRepository.
func NewPointRepository(db *gorm.DB) PointRepository {
	return &gormPointRepo{db: db}
}

func (r *gormPointRepo) Get(ctx context.Context, userID uint) (*models.CheckinPoint, error) {
	var acc models.CheckinPoint
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *gormPointRepo) Create(ctx context.Context, acc *models.CheckinPoint) error {
	return r.db.WithContext(ctx).Create(acc).Error
}

func (r *gormPointRepo) UpdatePoint(ctx context.Context, userID uint, point int) error {
	return r.db.WithContext(ctx).Model(&models.CheckinPoint{}).
		Where("user_id = ?", userID).
		Update("point", point).Error
}

func (r *gormPointRepo) TopBalances(ctx context.Context, limit int) ([]models.CheckinPoint, error) {
	var rows []models.CheckinPoint
	err := r.db.WithContext(ctx).Order("point DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

type gormPointHistoryRepo struct{ db *gorm.DB }

// NewPointHistoryRepository returns the GORM-backed PointHistoryRepository.
func NewPointHistoryRepository(db *gorm.DB) PointHistoryRepository {
	return &gormPointHistoryRepo{db: db}
}

func (r *gormPointHistoryRepo) Create(ctx context.Context, entry *models.PointHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormPointHistoryRepo) FindByUser(ctx context.Context, userID uint) ([]models.PointHistory, error) {
	var entries []models.PointHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

type gormStreakRepo struct{ db *gorm.DB }

// NewStreakRepository returns the GORM-backed StreakRepository.
func NewStreakRepository(db *gorm.DB) StreakRepository {
	return &gormStreakRepo{db: db}
}

func (r *gormStreakRepo) Get(ctx context.Context, userID uint) (*models.ConsecutiveCheckin, error) {
	var st models.ConsecutiveCheckin
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *gormStreakRepo) Create(ctx context.Context, st *models.ConsecutiveCheckin) error {
	return r.db.WithContext(ctx).Create(st).Error
}

func (r *gormStreakRepo) Update(ctx context.Context, st *models.ConsecutiveCheckin) error {
	return r.db.WithContext(ctx).Save(st).Error
}

type gormUserRepo struct{ db *gorm.DB }

// NewUserRepository returns the GORM-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepo{db: db}
}

func (r *gormUserRepo) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.User{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *gormUserRepo) Find(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepo) ListByRegion(ctx context.Context, regionType, regionID string) ([]models.User, error) {
	column, ok := regionColumns[regionType]
	if !ok {
		return nil, ErrInvalidRegion
	}
	var users []models.User
	err := r.db.WithContext(ctx).Where(column+" = ?", regionID).Find(&users).Error
	return users, err
}

// regionColumns maps API region types to user address columns. Keys are the
// wire values accepted by the report endpoint.
var regionColumns = map[string]string{
	"province":  "province_id",
	"city":      "city_id",
	"district":  "district_id",
	"subString": "subdistrict_id",
}

// ErrInvalidRegion is returned for an unknown region type.
var ErrInvalidRegion = errors.New("invalid region type")

// isDuplicateKey detects a unique-index violation on insert so a lost
// dedupe race can still surface as "already checked in".
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}
