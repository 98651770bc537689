package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"upline/app/echo-server/router"
	"upline/business/membership"
	"upline/business/referral"
	userService "upline/business/user"
	"upline/internal/middleware"
	"upline/internal/repository/notification"
	"upline/internal/repository/paypal"
	psqlRepo "upline/internal/repository/postgres"
	redisRepo "upline/internal/repository/redis"
	"upline/internal/rest"
	"upline/pkg/config"
	"upline/pkg/database"
	redisdb "upline/pkg/database/redis"
	"upline/pkg/logger"
	"upline/pkg/metrics"
	"upline/pkg/session"
	"upline/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Upline", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Referral stats cache is optional; the service falls back to querying
	// postgres when redis is absent.
	var statsCache *redisRepo.Cache
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, referral stats cache disabled", "error", err)
	} else {
		statsCache = redisRepo.NewCache(redisClient)
		defer redisdb.CloseRedisClient(redisClient)
	}

	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	paypalRepo := paypal.NewPayPalRepository(
		paypal.PayPalConfig{
			ClientID:     cfg.PayPal.ClientID,
			ClientSecret: cfg.PayPal.ClientSecret,
			BaseUrl:      cfg.PayPal.BaseUrl,
		},
	)
	if paypalRepo == nil {
		logger.Warn("PayPal credentials missing, processor check disabled")
	}

	// Init validate
	validate := validator.New()

	// Init cookie store
	cookies := session.NewCookieStore(cfg.App.Environment, utils.DefaultTokenTTL)

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	txnRepo := psqlRepo.NewTransactionRepository(db)

	// Init service
	userSvc := userService.NewUserService(userRepo, validate, mailjetEmail, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	membershipSvc := membership.NewMembershipService(txnRepo, userRepo, paypalRepo)
	referralSvc := referral.NewReferralService(userRepo, cacheOrNil(statsCache))

	// Init handler
	userHandler := rest.NewUserHandler(userSvc, cookies)
	membershipHandler := rest.NewMembershipHandler(membershipSvc, cookies)
	referralHandler := rest.NewReferralHandler(referralSvc)
	pageHandler := rest.NewPageHandler(cfg.App.Name, cfg.PayPal.ClientID, cfg.App.MembershipFeeAmount, cfg.App.MembershipFeeCurrency)

	renderer, err := rest.NewPageRenderer()
	if err != nil {
		logger.Fatal("Failed to parse page templates", "error", err)
	}

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.App.AppDeploymentUrl},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler)
	router.SetupMembershipRoutes(api, membershipHandler)
	router.SetupReferralRoutes(api, referralHandler)
	router.SetupPageRoutes(e, pageHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

// cacheOrNil keeps a typed-nil *Cache from leaking into the service as a
// non-nil interface.
func cacheOrNil(cache *redisRepo.Cache) referral.StatsCache {
	if cache == nil {
		return nil
	}
	return cache
}
