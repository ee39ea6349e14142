package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/modentca/modentca-api/models"
	"github.com/modentca/modentca-api/services/checkin"
	"github.com/modentca/modentca-api/utils"
)

// AdminCheckinController exposes the health-care side of the check-in
// engine: backdated check-ins, per-user reports, the leaderboard and a
// manual settlement trigger. Every endpoint takes the target user as an
// explicit parameter.
type AdminCheckinController struct {
	base       *CheckinController
	settlement *checkin.SettlementService
	db         *gorm.DB
	clock      checkin.Clock
}

// NewAdminCheckinController builds the admin controller sharing the check-in
// services of base.
func NewAdminCheckinController(db *gorm.DB, clock checkin.Clock, base *CheckinController, settlement *checkin.SettlementService) *AdminCheckinController {
	return &AdminCheckinController{base: base, settlement: settlement, db: db, clock: clock}
}

// CreateForUser records a check-in on behalf of a user, possibly on a past
// date. The window gate does not apply; the dedupe rule still does.
func (a *AdminCheckinController) CreateForUser(ctx *gin.Context) {
	type request struct {
		UserID uint   `json:"userId" binding:"required"`
		Type   string `json:"type" binding:"required"`
		Date   string `json:"date" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42220, "VALIDATION_ERROR")
		return
	}

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.Date), a.clock.Now().Location())
	if err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42221, "VALIDATION_ERROR")
		return
	}

	rec, err := a.base.ledger.RecordCheckInAt(ctx.Request.Context(), req.UserID, req.Type, day)
	if err != nil {
		switch {
		case errors.Is(err, checkin.ErrInvalidType):
			utils.Error(ctx, http.StatusUnprocessableEntity, 42222, "VALIDATION_ERROR")
		case errors.Is(err, checkin.ErrAlreadyCheckedIn):
			utils.Error(ctx, http.StatusUnprocessableEntity, 42223, "ALREADY_CHECKED_IN")
		default:
			utils.Sugar.Errorw("admin check-in failed", "user", req.UserID, "err", err)
			utils.Error(ctx, http.StatusInternalServerError, 50030, "INTERNAL_SERVER_ERROR")
		}
		return
	}

	utils.Respond(ctx, http.StatusCreated, 0, "OK", rec)
}

// Leaderboard ranks users by point balance.
func (a *AdminCheckinController) Leaderboard(ctx *gin.Context) {
	limit := 10
	if raw := strings.TrimSpace(ctx.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := a.base.stats.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, entries)
}

// RunSettlement triggers the daily settlement batch immediately and returns
// its summary. Intended for operational use next to the scheduled run.
func (a *AdminCheckinController) RunSettlement(ctx *gin.Context) {
	summary, err := a.settlement.Run(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "INTERNAL_SERVER_ERROR")
		return
	}
	utils.Success(ctx, summary)
}

// UserHistory lists check-ins of the given user.
func (a *AdminCheckinController) UserHistory(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "userId")
	if !ok {
		return
	}
	a.base.writeHistory(ctx, userID)
}

// UserStatus reports day or month status of the given user.
func (a *AdminCheckinController) UserStatus(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "userId")
	if !ok {
		return
	}
	a.base.writeStatus(ctx, userID)
}

// UserSummary returns the summary payload of the given user.
func (a *AdminCheckinController) UserSummary(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "userId")
	if !ok {
		return
	}
	a.base.writeSummary(ctx, userID)
}

// UserConsecutive returns the streak record of the given user.
func (a *AdminCheckinController) UserConsecutive(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "userId")
	if !ok {
		return
	}
	a.base.writeConsecutive(ctx, userID)
}

// ListUsers returns paginated accounts.
func (a *AdminCheckinController) ListUsers(ctx *gin.Context) {
	var users []models.User
	var total int64

	page, pageSize := 1, 10
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("pageSize")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	if err := a.db.Model(&models.User{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "INTERNAL_SERVER_ERROR")
		return
	}

	if err := a.db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, gin.H{
		"items": users,
		"pagination": gin.H{
			"page":       page,
			"pageSize":   pageSize,
			"total":      total,
			"totalPages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// GetUser returns one account by ID.
func (a *AdminCheckinController) GetUser(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "userId")
	if !ok {
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "NOT_FOUND")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50035, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, user)
}
