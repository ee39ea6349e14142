package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/modentca/modentca-api/services/checkin"
	"github.com/modentca/modentca-api/utils"
)

// CheckinController exposes the toothbrushing check-in engine over HTTP.
type CheckinController struct {
	ledger  *checkin.LedgerService
	points  *checkin.PointService
	streaks *checkin.StreakService
	stats   *checkin.StatsService
	clock   checkin.Clock
}

// NewCheckinController wires the check-in services over the given database.
func NewCheckinController(db *gorm.DB, clock checkin.Clock) *CheckinController {
	checkins := checkin.NewCheckinRepository(db)
	history := checkin.NewPointHistoryRepository(db)
	pointRepo := checkin.NewPointRepository(db)
	streakRepo := checkin.NewStreakRepository(db)
	users := checkin.NewUserRepository(db)

	points := checkin.NewPointService(pointRepo)
	return &CheckinController{
		ledger:  checkin.NewLedgerService(checkins, history, points, clock),
		points:  points,
		streaks: checkin.NewStreakService(streakRepo, clock),
		stats:   checkin.NewStatsService(checkins, points, streakRepo, users, clock),
		clock:   clock,
	}
}

// Create records a morning or evening check-in for the authenticated user.
func (c *CheckinController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	type request struct {
		Type string `json:"type" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42210, "VALIDATION_ERROR")
		return
	}

	rec, err := c.ledger.RecordCheckIn(ctx.Request.Context(), userID, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, checkin.ErrInvalidType):
			utils.Error(ctx, http.StatusUnprocessableEntity, 42211, "VALIDATION_ERROR")
		case errors.Is(err, checkin.ErrOutOfWindow):
			utils.Error(ctx, http.StatusUnprocessableEntity, 42212, "CHECKIN_TIME_NOT_AVAILABLE")
		case errors.Is(err, checkin.ErrAlreadyCheckedIn):
			utils.Error(ctx, http.StatusUnprocessableEntity, 42213, "ALREADY_CHECKED_IN")
		default:
			utils.Sugar.Errorw("check-in failed", "user", userID, "type", req.Type, "err", err)
			utils.Error(ctx, http.StatusInternalServerError, 50020, "INTERNAL_SERVER_ERROR")
		}
		return
	}

	utils.Respond(ctx, http.StatusCreated, 0, "OK", rec)
}

// History lists the user's check-ins, optionally filtered to a YYYY-MM month.
// A filtered month with no records is a 404; an unfiltered empty history is a
// 200 with an empty list.
func (c *CheckinController) History(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	c.writeHistory(ctx, userID)
}

func (c *CheckinController) writeHistory(ctx *gin.Context, userID uint) {
	now := c.clock.Now()
	year, month := now.Year(), now.Month()
	dateFiltered := false

	if raw := strings.TrimSpace(ctx.Query("date")); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			utils.Error(ctx, http.StatusUnprocessableEntity, 42214, "VALIDATION_ERROR")
			return
		}
		year, month = parsed.Year(), parsed.Month()
		dateFiltered = true
	}

	list, err := c.ledger.History(ctx.Request.Context(), userID, year, month, dateFiltered)
	if err != nil {
		if errors.Is(err, checkin.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "NOT_FOUND")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, list)
}

// PointHistory lists the user's point mutations, newest first. An empty
// trail is a 404.
func (c *CheckinController) PointHistory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	list, err := c.ledger.PointHistory(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, checkin.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40431, "NOT_FOUND")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, list)
}

// Statistic returns per-day completion counts for the ISO week containing
// the requested date, defaulting to the current week.
func (c *CheckinController) Statistic(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	ref := c.clock.Now()
	if raw := strings.TrimSpace(ctx.Query("date")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, ref.Location())
		if err != nil {
			utils.Error(ctx, http.StatusUnprocessableEntity, 42215, "VALIDATION_ERROR")
			return
		}
		ref = parsed
	}

	week, err := c.stats.WeeklyStatus(ctx.Request.Context(), userID, ref)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, week)
}

// Status reports a single day's morning/evening flags when a date is given,
// otherwise the full current month.
func (c *CheckinController) Status(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	c.writeStatus(ctx, userID)
}

func (c *CheckinController) writeStatus(ctx *gin.Context, userID uint) {
	now := c.clock.Now()

	if raw := strings.TrimSpace(ctx.Query("date")); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			utils.Error(ctx, http.StatusUnprocessableEntity, 42216, "VALIDATION_ERROR")
			return
		}
		status, err := c.ledger.StatusByDate(ctx.Request.Context(), userID, day)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50024, "INTERNAL_SERVER_ERROR")
			return
		}
		utils.Success(ctx, status)
		return
	}

	statuses, err := c.ledger.StatusForMonth(ctx.Request.Context(), userID, now)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "INTERNAL_SERVER_ERROR")
		return
	}
	utils.Success(ctx, statuses)
}

// Consecutive returns the user's streak record, 404 when none exists yet.
func (c *CheckinController) Consecutive(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	c.writeConsecutive(ctx, userID)
}

func (c *CheckinController) writeConsecutive(ctx *gin.Context, userID uint) {
	st, err := c.streaks.Current(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, checkin.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40432, "NOT_FOUND")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50026, "INTERNAL_SERVER_ERROR")
		return
	}
	utils.Success(ctx, st)
}

// Summary returns total points, current streak and the month's completion
// percentage in one payload.
func (c *CheckinController) Summary(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	c.writeSummary(ctx, userID)
}

func (c *CheckinController) writeSummary(ctx *gin.Context, userID uint) {
	summary, err := c.stats.UserSummary(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "INTERNAL_SERVER_ERROR")
		return
	}
	utils.Success(ctx, summary)
}

// Report computes the average monthly check-in percentage across all users
// registered in a region.
func (c *CheckinController) Report(ctx *gin.Context) {
	regionType := ctx.Param("regionType")
	regionID := ctx.Param("regionId")

	yearRaw := ctx.Param("year")
	year, err := strconv.Atoi(yearRaw)
	if err != nil || len(yearRaw) != 4 {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42217, "VALIDATION_ERROR")
		return
	}
	monthNum, err := strconv.Atoi(ctx.Param("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42218, "VALIDATION_ERROR")
		return
	}

	avg, err := c.stats.RegionalAverage(ctx.Request.Context(), regionType, regionID, year, time.Month(monthNum))
	if err != nil {
		switch {
		case errors.Is(err, checkin.ErrInvalidRegion):
			utils.Error(ctx, http.StatusUnprocessableEntity, 42219, "VALIDATION_ERROR")
		case errors.Is(err, checkin.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40433, "NOT_FOUND")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50028, "INTERNAL_SERVER_ERROR")
		}
		return
	}

	utils.Success(ctx, gin.H{"averageCheckInPercentage": avg})
}
