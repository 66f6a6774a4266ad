package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"roomdesk-backend/config"
	"roomdesk-backend/controllers"
	"roomdesk-backend/queue"
	"roomdesk-backend/routes"
	"roomdesk-backend/services"
	"roomdesk-backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat, "roomdesk-backend")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}

	rdb := config.NewRedisClient(cfg)
	if rdb == nil {
		logger.Warn("redis unavailable; rate limiting and extension cache disabled")
	}

	var publisher *queue.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = queue.NewPublisher(cfg.AMQPURL, cfg.BookingQueue, logger)
		if err != nil {
			logger.Warn("queue publisher unavailable; booking events disabled", zap.Error(err))
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	siteService := services.NewSiteService(db, rdb, logger, cfg.Now)
	userService := services.NewUserService(db, cfg.Now)
	roomService := services.NewRoomService(db, logger, cfg.Now)
	availabilityService := services.NewAvailabilityService(db)
	pricingService := services.NewPricingService(db)
	seasonService := services.NewSeasonService(db, cfg.Now)
	maintenanceService := services.NewMaintenanceService(db, cfg.Now)
	bookingService := services.NewBookingService(db, logger, cfg.Now)
	dashboardService := services.NewDashboardService(db, cfg.Now)
	auditService := services.NewAuditService(db, cfg.Now)
	visitorService := services.NewVisitorService(db, cfg.Now)
	exportService := services.NewExportService(bookingService)

	router := routes.SetupRouter(routes.Deps{
		Cfg:    cfg,
		Logger: logger,
		Redis:  rdb,

		Sites:    siteService,
		Visitors: visitorService,

		Public:      controllers.NewPublicController(roomService, bookingService, pricingService, publisher, cfg, logger),
		Auth:        controllers.NewAuthController(userService, cfg, logger),
		Bookings:    controllers.NewBookingController(bookingService, siteService, exportService, cfg),
		Rooms:       controllers.NewRoomController(roomService, availabilityService, cfg),
		Seasons:     controllers.NewSeasonController(seasonService, cfg),
		Maintenance: controllers.NewMaintenanceController(maintenanceService, cfg),
		Users:       controllers.NewUserController(userService),
		Settings:    controllers.NewSettingsController(siteService),
		Dashboard:   controllers.NewDashboardController(dashboardService),
		Audit:       controllers.NewAuditController(auditService),
		Owner:       controllers.NewOwnerController(siteService, visitorService),
	})

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if cfg.AMQPURL != "" {
		consumer := queue.NewConsumer(cfg.AMQPURL, cfg.BookingQueue, cfg.NotifyWebhookURL, logger)
		go consumer.Run(consumerCtx)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	stopConsumer()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}
