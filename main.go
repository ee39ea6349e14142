package main

import (
	"time"

	"github.com/modentca/modentca-api/config"
	"github.com/modentca/modentca-api/models"
	"github.com/modentca/modentca-api/routes"
	"github.com/modentca/modentca-api/services/checkin"
	"github.com/modentca/modentca-api/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		utils.Sugar.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}
	clock := checkin.NewClock(loc)

	db := config.InitDatabase(
		&models.User{},
		&models.Checkin{},
		&models.CheckinPoint{},
		&models.ConsecutiveCheckin{},
		&models.PointHistory{},
		&models.Reward{},
		&models.RedemptionHistory{},
		&models.Ekagi{},
		&models.CariogramHistory{},
		&models.DentalTracker{},
	)

	r, settlement := routes.SetupRouter(db, clock)

	// Nightly settlement of missed windows and streaks
	if err := settlement.StartScheduler(cfg.SettlementTime); err != nil {
		utils.Sugar.Fatalf("invalid settlement time %q: %v", cfg.SettlementTime, err)
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
