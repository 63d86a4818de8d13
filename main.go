package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/loopwhile/firstppt-sub000/config"
	"github.com/loopwhile/firstppt-sub000/kds"
	"github.com/loopwhile/firstppt-sub000/ledger"
	"github.com/loopwhile/firstppt-sub000/menu"
	"github.com/loopwhile/firstppt-sub000/models"
	"github.com/loopwhile/firstppt-sub000/router"
	"github.com/loopwhile/firstppt-sub000/services"
	"github.com/loopwhile/firstppt-sub000/utils"
)

func main() {
	// Load .env before reading any configuration.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
	kds.SetLogger(func(format string, args ...interface{}) {
		utils.ErrorLogger.Printf(format, args...)
	})

	cfg := config.Load()
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Staff accounts are the only durable state.
	staffDB, err := config.InitStaffDB(cfg.StaffDBPath)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open staff database: %v", err)
	}
	if err := staffDB.AutoMigrate(&models.User{}); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate staff database: %v", err)
	}

	// The order core: one ledger, one menu catalog, one closing session.
	orderLedger := ledger.New()
	catalog := menu.Default()
	closing := services.NewClosingService(orderLedger)

	// Kitchen displays poll; the monitor additionally pushes each derived
	// queue over the websocket hub on the same cadence.
	monitor := services.NewKitchenMonitor(orderLedger)
	monitor.Interval = cfg.PollInterval
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(staffDB, orderLedger, catalog, closing)

	utils.InfoLogger.Printf("Listening on port %s (poll interval %v)", cfg.Port, cfg.PollInterval)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
