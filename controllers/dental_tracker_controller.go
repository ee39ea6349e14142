package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/modentca/modentca-api/models"
	"github.com/modentca/modentca-api/utils"
)

// DentalTrackerController stores per-user dental progress photos.
type DentalTrackerController struct {
	db *gorm.DB
}

// NewDentalTrackerController builds a DentalTrackerController backed by the
// given database.
func NewDentalTrackerController(db *gorm.DB) *DentalTrackerController {
	return &DentalTrackerController{db: db}
}

// Upload saves one dental photo for the authenticated user.
func (d *DentalTrackerController) Upload(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	header, err := ctx.FormFile("photo")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "no photo uploaded")
		return
	}

	path, url, err := saveImage(header, "dental-tracker")
	if err != nil {
		switch {
		case errors.Is(err, errImageTooLarge):
			utils.Error(ctx, http.StatusBadRequest, 40081, "photo exceeds size limit")
		case errors.Is(err, errImageType):
			utils.Error(ctx, http.StatusBadRequest, 40082, "unsupported photo type")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50080, "INTERNAL_SERVER_ERROR")
		}
		return
	}

	entry := models.DentalTracker{
		UserID:   userID,
		FilePath: path,
		URL:      url,
	}
	if err := d.db.Create(&entry).Error; err != nil {
		_ = removeStoredFile(path)
		utils.Error(ctx, http.StatusInternalServerError, 50081, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Respond(ctx, http.StatusCreated, 0, "OK", entry)
}

// List returns the user's uploaded photos, newest first.
func (d *DentalTrackerController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	var list []models.DentalTracker
	if err := d.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, list)
}
