package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"roombooking/internal/config"
	"roombooking/internal/database"
	"roombooking/internal/middleware"
	"roombooking/internal/modules/admin"
	"roombooking/internal/modules/auth"
	"roombooking/internal/modules/catalog"
	"roombooking/internal/modules/events"
	"roombooking/internal/modules/notification"
	"roombooking/internal/modules/report"
	"roombooking/internal/modules/reservation"
	jwtsvc "roombooking/internal/pkg/jwt"
	"roombooking/internal/pkg/logger"
	"roombooking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	log := logger.New(cfg.AppEnv)
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatal("migrations failed", zap.Error(err))
	}
	cancel()

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	var mailer notification.Mailer
	if cfg.SMTPEnabled {
		mailer = notification.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		mailer = notification.NewDevConsoleMailer(log)
	}
	notificationService := notification.NewService(notificationRepo, userRepo, reservationRepo, mailer, log)
	notificationHandler := notification.NewHandler(notificationService)

	hub := events.NewHub(log)
	defer hub.Close()
	wsHandler := events.NewWSHandler(hub, j, log)

	reservationService := reservation.NewService(reservationRepo, roomRepo, equipmentRepo, notificationService, hub, log)
	reservationHandler := reservation.NewHandler(reservationService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(roomRepo, equipmentRepo, reservationRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	adminService := admin.NewService(userRepo, roomRepo, reservationRepo)
	adminHandler := admin.NewHandler(adminService)

	reportService := report.NewService(reservationRepo, roomRepo)
	reportHandler := report.NewHandler(reportService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(log), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/ws/events", wsHandler.HandleWebSocket)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			reservationHandler.RegisterRoutes(protected)
			catalogHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
		}

		adminGroup := v1.Group("/")
		adminGroup.Use(middleware.JWTAuth(j), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup)
			reportHandler.RegisterRoutes(adminGroup)
			catalogHandler.RegisterAdminRoutes(adminGroup)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
