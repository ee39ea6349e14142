package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/modentca/modentca-api/models"
	"github.com/modentca/modentca-api/utils"
)

// EkagiController manages the educational gallery (videos and articles).
type EkagiController struct {
	db *gorm.DB
}

// NewEkagiController builds an EkagiController backed by the given database.
func NewEkagiController(db *gorm.DB) *EkagiController {
	return &EkagiController{db: db}
}

// List returns gallery entries, optionally filtered by type. An empty
// result is a 404.
func (e *EkagiController) List(ctx *gin.Context) {
	q := e.db.Order("created_at DESC")

	if t := strings.TrimSpace(ctx.Query("type")); t != "" {
		if t != models.EkagiVideo && t != models.EkagiArticle {
			utils.Error(ctx, http.StatusUnprocessableEntity, 42240, "VALIDATION_ERROR")
			return
		}
		q = q.Where("type = ?", t)
	}

	var items []models.Ekagi
	if err := q.Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "INTERNAL_SERVER_ERROR")
		return
	}
	if len(items) == 0 {
		utils.Error(ctx, http.StatusNotFound, 40460, "NOT_FOUND")
		return
	}

	utils.Success(ctx, items)
}

// Get returns one gallery entry.
func (e *EkagiController) Get(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var item models.Ekagi
	if err := e.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40461, "NOT_FOUND")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50061, "INTERNAL_SERVER_ERROR")
		return
	}
	utils.Success(ctx, item)
}

// Create adds a gallery entry from a multipart form with an optional
// thumbnail image. Article HTML is sanitized before storage. Admin only.
func (e *EkagiController) Create(ctx *gin.Context) {
	title := strings.TrimSpace(ctx.PostForm("title"))
	contentType := strings.TrimSpace(ctx.PostForm("type"))
	content := ctx.PostForm("content")

	if title == "" || (contentType != models.EkagiVideo && contentType != models.EkagiArticle) {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42241, "VALIDATION_ERROR")
		return
	}
	if contentType == models.EkagiArticle {
		content = utils.Sanitize(content)
	}

	item := models.Ekagi{
		Title:   title,
		Type:    contentType,
		Content: content,
	}

	if header, err := ctx.FormFile("thumbnail"); err == nil {
		path, url, err := saveImage(header, "ekagi")
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40070, "invalid thumbnail")
			return
		}
		item.ThumbnailPath = path
		item.ThumbnailURL = url
	}

	if err := e.db.Create(&item).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Respond(ctx, http.StatusCreated, 0, "OK", item)
}

// Update modifies a gallery entry; form fields left empty keep their value.
// Admin only.
func (e *EkagiController) Update(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var item models.Ekagi
	if err := e.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40462, "NOT_FOUND")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50063, "INTERNAL_SERVER_ERROR")
		return
	}

	if title := strings.TrimSpace(ctx.PostForm("title")); title != "" {
		item.Title = title
	}
	if t := strings.TrimSpace(ctx.PostForm("type")); t != "" {
		if t != models.EkagiVideo && t != models.EkagiArticle {
			utils.Error(ctx, http.StatusUnprocessableEntity, 42242, "VALIDATION_ERROR")
			return
		}
		item.Type = t
	}
	if content := ctx.PostForm("content"); content != "" {
		if item.Type == models.EkagiArticle {
			content = utils.Sanitize(content)
		}
		item.Content = content
	}
	if header, err := ctx.FormFile("thumbnail"); err == nil {
		path, url, err := saveImage(header, "ekagi")
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40071, "invalid thumbnail")
			return
		}
		if item.ThumbnailPath != "" {
			_ = removeStoredFile(item.ThumbnailPath)
		}
		item.ThumbnailPath = path
		item.ThumbnailURL = url
	}

	if err := e.db.Save(&item).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "INTERNAL_SERVER_ERROR")
		return
	}
	utils.Success(ctx, item)
}

// Delete removes a gallery entry and its stored thumbnail. Admin only.
func (e *EkagiController) Delete(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	var item models.Ekagi
	if err := e.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40463, "NOT_FOUND")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50065, "INTERNAL_SERVER_ERROR")
		return
	}

	if err := e.db.Delete(&item).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50066, "INTERNAL_SERVER_ERROR")
		return
	}
	if item.ThumbnailPath != "" {
		_ = removeStoredFile(item.ThumbnailPath)
	}

	utils.Success(ctx, gin.H{"message": "ekagi deleted"})
}
