package main // Entry point package

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/hallbook/hall-booking-marketplace/internal/config"
	"github.com/hallbook/hall-booking-marketplace/internal/database"
	"github.com/hallbook/hall-booking-marketplace/internal/handler"
	"github.com/hallbook/hall-booking-marketplace/internal/jobs"
	"github.com/hallbook/hall-booking-marketplace/internal/middleware"
	"github.com/hallbook/hall-booking-marketplace/internal/queue"
	"github.com/hallbook/hall-booking-marketplace/internal/repository"
	"github.com/hallbook/hall-booking-marketplace/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Env == "dev" {
		logrus.SetFormatter(&logrus.TextFormatter{})
		logrus.SetLevel(logrus.DebugLevel)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter. A nil client
	// degrades both to pass-through behavior.
	rdb := config.NewRedisClient()
	retention := time.Duration(cfg.ActivityRetention) * time.Hour

	// Repositories.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	hallRepo := repository.NewHallRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	contactRepo := repository.NewContactRepo(db)

	e := echo.New()
	e.HideBanner = true

	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}

	// Handlers.
	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	bookH := handler.NewBookingHandler(bookingRepo, hallRepo, activityRepo)
	ownerBookH := handler.NewOwnerBookingHandler(bookingRepo, activityRepo)
	adminBookH := handler.NewAdminBookingHandler(bookingRepo, activityRepo)
	hallH := handler.NewHallHandler(hallRepo)
	browseH := handler.NewBrowseHandler(hallRepo, reviewRepo, contactRepo)
	reviewH := handler.NewReviewHandler(reviewRepo, hallRepo, activityRepo)
	activityH := handler.NewActivityHandler(activityRepo, retention)
	adminH := handler.NewAdminHandler(userRepo, hallRepo, bookingRepo, contactRepo)
	reportH := handler.NewOwnerReportHandler(bookingRepo)

	// Routes.
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}
	router.RegisterPublic(e, browseH, cacheMW)
	router.RegisterSearch(e, browseH, bookH, cfg.JWTSecret)
	router.RegisterUser(e, bookH, reviewH, activityH, cfg.JWTSecret)
	router.RegisterOwner(e, hallH, ownerBookH, reviewH, activityH, reportH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, adminBookH, reviewH, cfg.JWTSecret)

	// Background workers: broker consumer for the audit log, scheduled
	// pruning of expired activity entries.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			logrus.WithError(err).Warn("activity consumer stopped")
		}
	}()
	pruner := jobs.StartActivityPruner(activityRepo, retention)
	defer pruner.Stop()

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
