package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/modentca/modentca-api/models"
	"github.com/modentca/modentca-api/utils"
)

// CariogramController computes caries-risk indices and keeps their history.
type CariogramController struct {
	db *gorm.DB
}

// NewCariogramController builds a CariogramController backed by the given
// database.
func NewCariogramController(db *gorm.DB) *CariogramController {
	return &CariogramController{db: db}
}

// CariogramScale maps a def index to its Indonesian risk label.
func CariogramScale(def float64) string {
	switch {
	case def <= 1.1:
		return "Sangat Rendah"
	case def <= 2.6:
		return "Rendah"
	case def <= 4.4:
		return "Sedang"
	case def <= 6.5:
		return "Tinggi"
	default:
		return "Sangat Tinggi"
	}
}

// Calculate computes def = decayed + extracted + filled, stores the result
// for the user and returns the index with its scale label.
func (c *CariogramController) Calculate(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	type request struct {
		Decayed   *float64 `json:"decayed" binding:"required,gte=0"`
		Extracted *float64 `json:"extracted" binding:"required,gte=0"`
		Filled    *float64 `json:"filled" binding:"required,gte=0"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42250, "VALIDATION_ERROR")
		return
	}

	def := *req.Decayed + *req.Extracted + *req.Filled
	entry := models.CariogramHistory{
		UserID: userID,
		Def:    def,
		Result: CariogramScale(def),
	}

	if err := c.db.Create(&entry).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Respond(ctx, http.StatusCreated, 0, "OK", entry)
}

// History lists the user's past calculations, newest first, optionally
// bounded by startDate/endDate (YYYY-MM-DD, inclusive).
func (c *CariogramController) History(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	q := c.db.Where("user_id = ?", userID).Order("created_at DESC")

	if raw := strings.TrimSpace(ctx.Query("startDate")); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.Error(ctx, http.StatusUnprocessableEntity, 42251, "VALIDATION_ERROR")
			return
		}
		q = q.Where("created_at >= ?", start)
	}
	if raw := strings.TrimSpace(ctx.Query("endDate")); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.Error(ctx, http.StatusUnprocessableEntity, 42252, "VALIDATION_ERROR")
			return
		}
		q = q.Where("created_at < ?", end.AddDate(0, 0, 1))
	}

	var list []models.CariogramHistory
	if err := q.Find(&list).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, list)
}
