package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/modentca/modentca-api/config"
	"github.com/modentca/modentca-api/controllers"
	"github.com/modentca/modentca-api/middleware"
	"github.com/modentca/modentca-api/services/checkin"
	"github.com/modentca/modentca-api/utils"
)

// SetupRouter wires routes, middlewares, and controllers. It returns the
// engine together with the settlement service so the caller can start the
// daily scheduler.
func SetupRouter(db *gorm.DB, clock checkin.Clock) (*gin.Engine, *checkin.SettlementService) {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	ginLogPath := cfg.GinPath
	// Use application log level as reference
	gl, err := utils.NewRollingFileLogger(ginLogPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.Static("/static", "./"+cfg.UploadDir)

	r.GET("/", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"service": "modentca-api"})
	})
	r.GET("/ping", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"message": "pong"})
	})
	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	checkinController := controllers.NewCheckinController(db, clock)
	rewardController := controllers.NewRewardController(db, checkinController)
	ekagiController := controllers.NewEkagiController(db)
	cariogramController := controllers.NewCariogramController(db)
	dentalController := controllers.NewDentalTrackerController(db)
	addressController := controllers.NewAddressController()

	// Settlement shares the engine's repositories.
	points := checkin.NewPointService(checkin.NewPointRepository(db))
	history := checkin.NewPointHistoryRepository(db)
	users := checkin.NewUserRepository(db)
	ledger := checkin.NewLedgerService(checkin.NewCheckinRepository(db), history, points, clock)
	streaks := checkin.NewStreakService(checkin.NewStreakRepository(db), clock)
	settlement := checkin.NewSettlementService(users, ledger, points, history, streaks, clock)
	adminController := controllers.NewAdminCheckinController(db, clock, checkinController, settlement)

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/send-email-code", authController.SendEmailCode)
	authGroup.POST("/verify-email", authController.VerifyEmail)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)
	authGroup.POST("/change-password", middleware.AuthRequired(), authController.ChangePassword)

	// Regional report is public in the current API surface.
	r.GET("/checkin/report/:regionType/:regionId/:year/:month", checkinController.Report)

	checkinGroup := r.Group("/checkin")
	checkinGroup.Use(middleware.AuthRequired())
	checkinGroup.POST("", checkinController.Create)
	checkinGroup.GET("/history", checkinController.History)
	checkinGroup.GET("/point-history", checkinController.PointHistory)
	checkinGroup.GET("/statistic", checkinController.Statistic)
	checkinGroup.GET("/status", checkinController.Status)
	checkinGroup.GET("/consecutive", checkinController.Consecutive)
	checkinGroup.GET("/summary", checkinController.Summary)

	rewardGroup := r.Group("/reward")
	rewardGroup.Use(middleware.AuthRequired())
	rewardGroup.GET("", rewardController.List)
	rewardGroup.GET("/history", rewardController.RedemptionHistory)
	rewardGroup.GET("/:id", rewardController.Get)
	rewardGroup.POST("/:id/redeem", rewardController.Redeem)
	rewardGroup.POST("", middleware.AdminRequired(), rewardController.Create)
	rewardGroup.PUT("/:id", middleware.AdminRequired(), rewardController.Update)
	rewardGroup.DELETE("/:id", middleware.AdminRequired(), rewardController.Delete)

	ekagiGroup := r.Group("/ekagi")
	ekagiGroup.Use(middleware.AuthRequired())
	ekagiGroup.GET("", ekagiController.List)
	ekagiGroup.GET("/:id", ekagiController.Get)
	ekagiGroup.POST("", middleware.AdminRequired(), ekagiController.Create)
	ekagiGroup.PUT("/:id", middleware.AdminRequired(), ekagiController.Update)
	ekagiGroup.DELETE("/:id", middleware.AdminRequired(), ekagiController.Delete)

	cariogramGroup := r.Group("/cariogram")
	cariogramGroup.Use(middleware.AuthRequired())
	cariogramGroup.POST("", cariogramController.Calculate)
	cariogramGroup.GET("/history", cariogramController.History)

	dentalGroup := r.Group("/dental-tracker")
	dentalGroup.Use(middleware.AuthRequired())
	dentalGroup.POST("", dentalController.Upload)
	dentalGroup.GET("", dentalController.List)

	// Region lookups are needed during registration, before any token exists.
	addressGroup := r.Group("/address")
	addressGroup.GET("/provinces", addressController.Provinces)
	addressGroup.GET("/cities/:provinceId", addressController.Cities)
	addressGroup.GET("/districts/:cityId", addressController.Districts)
	addressGroup.GET("/subdistricts/:districtId", addressController.Subdistricts)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.AdminRequired())
	adminGroup.POST("/checkin", adminController.CreateForUser)
	adminGroup.GET("/checkin/leaderboard", adminController.Leaderboard)
	adminGroup.POST("/checkin/settlement", adminController.RunSettlement)
	adminGroup.GET("/checkin/:userId/history", adminController.UserHistory)
	adminGroup.GET("/checkin/:userId/status", adminController.UserStatus)
	adminGroup.GET("/checkin/:userId/summary", adminController.UserSummary)
	adminGroup.GET("/checkin/:userId/consecutive", adminController.UserConsecutive)
	adminGroup.GET("/users", adminController.ListUsers)
	adminGroup.GET("/users/:userId", adminController.GetUser)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r, settlement
}
