package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/modentca/modentca-api/models"
	"github.com/modentca/modentca-api/utils"
)

// AuthController handles registration, login and profile endpoints.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController builds an AuthController backed by the given database.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type parentPayload struct {
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Relation    string     `json:"relation" binding:"omitempty,oneof=ayah ibu"`
	BirthDate   *time.Time `json:"birthDate"`
	PhoneNumber string     `json:"phoneNumber"`
}

// Register creates a child account keyed by the parent's email.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		FirstName     string        `json:"firstName" binding:"required,max=64"`
		LastName      string        `json:"lastName" binding:"max=64"`
		ParentEmail   string        `json:"parentEmail" binding:"required,email"`
		Password      string        `json:"password" binding:"required,min=6"`
		BirthDate     *time.Time    `json:"birthDate"`
		Sex           string        `json:"sex" binding:"omitempty,oneof=L P"`
		ProvinceID    string        `json:"provinceId"`
		CityID        string        `json:"cityId"`
		DistrictID    string        `json:"districtId"`
		SubdistrictID string        `json:"subdistrictId"`
		Parent        parentPayload `json:"parent"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42200, "VALIDATION_ERROR")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.ParentEmail))

	var existing models.User
	if err := a.db.Where("parent_email = ?", email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40910, "EMAIL_ALREADY_REGISTERED")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "INTERNAL_SERVER_ERROR")
		return
	}

	user := models.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		ParentEmail:   email,
		PasswordHash:  hash,
		BirthDate:     req.BirthDate,
		Sex:           req.Sex,
		Role:          models.RoleUser,
		ProvinceID:    req.ProvinceID,
		CityID:        req.CityID,
		DistrictID:    req.DistrictID,
		SubdistrictID: req.SubdistrictID,
		Parent: models.Parent{
			FirstName:   req.Parent.FirstName,
			LastName:    req.Parent.LastName,
			Relation:    req.Parent.Relation,
			BirthDate:   req.Parent.BirthDate,
			PhoneNumber: req.Parent.PhoneNumber,
		},
	}

	if err := a.db.Create(&user).Error; err != nil {
		utils.Sugar.Errorw("register failed", "email", email, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50011, "INTERNAL_SERVER_ERROR")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.ParentEmail, user.Role, 72*time.Hour)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Respond(ctx, http.StatusCreated, 0, "OK", gin.H{
		"token": token,
		"user":  user,
	})
}

// Login authenticates with the parent email and password pair.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		ParentEmail string `json:"parentEmail" binding:"required,email"`
		Password    string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42201, "VALIDATION_ERROR")
		return
	}

	var user models.User
	if err := a.db.Where("parent_email = ?", strings.ToLower(strings.TrimSpace(req.ParentEmail))).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "INVALID_CREDENTIALS")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "INVALID_CREDENTIALS")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.ParentEmail, user.Role, 72*time.Hour)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the presented bearer token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusBadRequest, 40020, "missing bearer token")
		return
	}
	token := strings.TrimSpace(parts[1])

	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "invalid token")
		return
	}

	expiresAt := time.Now().Add(72 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)

	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "NOT_FOUND")
		return
	}

	utils.Success(ctx, user)
}

// UpdateProfile applies partial updates to the authenticated user's profile.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	type request struct {
		FirstName     *string        `json:"firstName" binding:"omitempty,max=64"`
		LastName      *string        `json:"lastName" binding:"omitempty,max=64"`
		BirthDate     *time.Time     `json:"birthDate"`
		Image         *string        `json:"image"`
		Sex           *string        `json:"sex" binding:"omitempty,oneof=L P"`
		ProvinceID    *string        `json:"provinceId"`
		CityID        *string        `json:"cityId"`
		DistrictID    *string        `json:"districtId"`
		SubdistrictID *string        `json:"subdistrictId"`
		Parent        *parentPayload `json:"parent"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42202, "VALIDATION_ERROR")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40421, "NOT_FOUND")
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.BirthDate != nil {
		user.BirthDate = req.BirthDate
	}
	if req.Image != nil {
		user.Image = *req.Image
	}
	if req.Sex != nil {
		user.Sex = *req.Sex
	}
	if req.ProvinceID != nil {
		user.ProvinceID = *req.ProvinceID
	}
	if req.CityID != nil {
		user.CityID = *req.CityID
	}
	if req.DistrictID != nil {
		user.DistrictID = *req.DistrictID
	}
	if req.SubdistrictID != nil {
		user.SubdistrictID = *req.SubdistrictID
	}
	if req.Parent != nil {
		user.Parent = models.Parent{
			FirstName:   req.Parent.FirstName,
			LastName:    req.Parent.LastName,
			Relation:    req.Parent.Relation,
			BirthDate:   req.Parent.BirthDate,
			PhoneNumber: req.Parent.PhoneNumber,
		}
	}

	if err := a.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, user)
}

// ChangePassword replaces the password after verifying the current one.
func (a *AuthController) ChangePassword(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		return
	}

	type request struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42203, "VALIDATION_ERROR")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40422, "NOT_FOUND")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.OldPassword) {
		utils.Error(ctx, http.StatusUnauthorized, 40122, "INVALID_CREDENTIALS")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "INTERNAL_SERVER_ERROR")
		return
	}

	if err := a.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, gin.H{"message": "password updated"})
}

// SendEmailCode emails a verification code to the parent address, with a
// per-address cooldown to throttle repeat requests.
func (a *AuthController) SendEmailCode(ctx *gin.Context) {
	type request struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42204, "VALIDATION_ERROR")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.EmailCooldownTrySet(email, time.Minute) {
		utils.Error(ctx, http.StatusTooManyRequests, 42910, "code requested too frequently")
		return
	}

	code := utils.GenerateVerificationCode(6)
	utils.SaveCode(email, code, 10*time.Minute)

	body := fmt.Sprintf("Kode verifikasi Modentca Anda: %s\n\nKode berlaku 10 menit.", code)
	if err := utils.SendMail(email, "Kode Verifikasi Modentca", body); err != nil {
		utils.Sugar.Errorw("send verification mail failed", "email", email, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to send email")
		return
	}

	utils.Success(ctx, gin.H{"message": "verification code sent"})
}

// VerifyEmail consumes a verification code and marks the parent email verified.
func (a *AuthController) VerifyEmail(ctx *gin.Context) {
	type request struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required,len=6"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42205, "VALIDATION_ERROR")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.VerifyAndConsumeCode(email, req.Code) {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42206, "INVALID_VERIFICATION_CODE")
		return
	}

	if err := a.db.Model(&models.User{}).Where("parent_email = ?", email).Update("email_verified", true).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50018, "INTERNAL_SERVER_ERROR")
		return
	}

	utils.Success(ctx, gin.H{"message": "email verified"})
}
