package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/modentca/modentca-api/models"
	"github.com/modentca/modentca-api/services/checkin"
	"github.com/modentca/modentca-api/utils"
)

// RewardController manages the point store catalog and redemptions.
type RewardController struct {
	db      *gorm.DB
	points  *checkin.PointService
	history checkin.PointHistoryRepository
}

// NewRewardController builds a RewardController sharing the point services
// of the check-in engine.
func NewRewardController(db *gorm.DB, base *CheckinController) *RewardController {
	return &RewardController{
		db:      db,
		points:  base.points,
		history: checkin.NewPointHistoryRepository(db),
	}
}

// List returns the reward catalog.
func (r *RewardController) List(ctx *gin.Context) {
	var rewards []models.Reward
	if err := r.db.Order("created_at DESC").Find(&rewards).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "INTERNAL_SERVER_ERROR")
		return
	}
	utils.Success(ctx, rewards)
}

// Get returns one reward by ID.
func (r *RewardController) Get(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var reward models.Reward
	if err := r.db.First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40450, "NOT_FOUND")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "INTERNAL_SERVER_ERROR")
		return
	}
	utils.Success(ctx, reward)
}

type rewardRequest struct {
	Name        string `json:"name" binding:"required,max=128"`
	Description string `json:"description" binding:"required,max=1024"`
	Point       int    `json:"point" binding:"required,gt=0"`
	Photo       string `json:"photo"`
	Stock       int    `json:"stock" binding:"gte=0"`
	IsAvailable *bool  `json:"isAvailable"`
}

// Create adds a catalog entry. Admin only.
func (r *RewardController) Create(ctx *gin.Context) {
	var req rewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42230, "VALIDATION_ERROR")
		return
	}

	reward := models.Reward{
		Name:        req.Name,
		Description: req.Description,
		Point:       req.Point,
		Photo:       req.Photo,
		Stock:       req.Stock,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}
	if err := r.db.Create(&reward).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Respond(ctx, http.StatusCreated, 0, "OK", reward)
}

// Update replaces the mutable fields of a reward. Admin only.
func (r *RewardController) Update(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var req rewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42231, "VALIDATION_ERROR")
		return
	}

	var reward models.Reward
	if err := r.db.First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40451, "NOT_FOUND")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50043, "INTERNAL_SERVER_ERROR")
		return
	}

	reward.Name = req.Name
	reward.Description = req.Description
	reward.Point = req.Point
	reward.Photo = req.Photo
	reward.Stock = req.Stock
	if req.IsAvailable != nil {
		reward.IsAvailable = *req.IsAvailable
	}

	if err := r.db.Save(&reward).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "INTERNAL_SERVER_ERROR")
		return
	}
	utils.Success(ctx, reward)
}

// Delete removes a reward from the catalog. Admin only.
func (r *RewardController) Delete(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	res := r.db.Delete(&models.Reward{}, id)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "INTERNAL_SERVER_ERROR")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40452, "NOT_FOUND")
		return
	}
	utils.Success(ctx, gin.H{"message": "reward deleted"})
}

// Redeem exchanges points for a reward: the reward must be available and in
// stock and the balance must cover its price. Stock is decremented with a
// guarded update so concurrent redemptions cannot oversell.
func (r *RewardController) Redeem(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var reward models.Reward
	if err := r.db.First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40453, "NOT_FOUND")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50046, "INTERNAL_SERVER_ERROR")
		return
	}

	if !reward.IsAvailable {
		utils.Error(ctx, http.StatusBadRequest, 40060, "REWARD_NOT_AVAILABLE")
		return
	}
	if reward.Stock <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40061, "OUT_OF_STOCK")
		return
	}

	balance, err := r.points.Balance(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50047, "INTERNAL_SERVER_ERROR")
		return
	}
	if balance < reward.Point {
		utils.Error(ctx, http.StatusBadRequest, 40062, "INSUFFICIENT_POINT")
		return
	}

	redemption := models.RedemptionHistory{UserID: userID, RewardID: reward.ID}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Reward{}).
			Where("id = ? AND stock > 0", reward.ID).
			UpdateColumn("stock", gorm.Expr("stock - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errOutOfStock
		}
		return tx.Create(&redemption).Error
	})
	if err != nil {
		if errors.Is(err, errOutOfStock) {
			utils.Error(ctx, http.StatusBadRequest, 40061, "OUT_OF_STOCK")
			return
		}
		utils.Sugar.Errorw("redeem failed", "user", userID, "reward", reward.ID, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50048, "INTERNAL_SERVER_ERROR")
		return
	}

	if _, err := r.points.Reduce(ctx.Request.Context(), userID, reward.Point); err != nil {
		utils.Sugar.Errorw("redeem point reduce failed", "user", userID, "reward", reward.ID, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50049, "INTERNAL_SERVER_ERROR")
		return
	}

	entry := models.PointHistory{
		UserID: userID,
		Point:  -reward.Point,
		Type:   models.PointRedeem,
	}
	if err := r.history.Create(ctx.Request.Context(), &entry); err != nil {
		utils.Sugar.Warnw("redeem history write failed", "user", userID, "err", err)
	}

	utils.Respond(ctx, http.StatusCreated, 0, "OK", redemption)
}

// RedemptionHistory lists the user's redemptions, newest first. An empty
// list is a 404.
func (r *RewardController) RedemptionHistory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	var list []models.RedemptionHistory
	if err := r.db.Preload("Reward").Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "INTERNAL_SERVER_ERROR")
		return
	}
	if len(list) == 0 {
		utils.Error(ctx, http.StatusNotFound, 40454, "NOT_FOUND")
		return
	}

	utils.Success(ctx, list)
}

var errOutOfStock = errors.New("out of stock")
