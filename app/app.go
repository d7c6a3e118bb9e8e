package app

import (
	"context"
	"go-project-api/config"
	"go-project-api/db"
	"go-project-api/handler"
	"go-project-api/logger"
	"go-project-api/repository"
	"go-project-api/router"
	"go-project-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error applying migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---

	userRepo := repository.NewUserRepository(database)
	roleRepo := repository.NewRoleRepository(database)
	companyRepo := repository.NewCompanyRepository(database)
	tokenRepo := repository.NewTokenRepository(database)

	jwtCfg := config.AppConfig.JWT
	tokenSigner := service.NewTokenSigner(jwtCfg.SecretKey, time.Duration(jwtCfg.AccessTokenTTLMinutes)*time.Minute)
	refreshTokens := service.NewRefreshTokenService(database, tokenRepo, time.Duration(jwtCfg.RefreshTokenTTLDays)*24*time.Hour)

	authService := service.NewAuthService(database, userRepo, roleRepo, companyRepo, tokenSigner, refreshTokens)
	userService := service.NewUserService(userRepo, roleRepo, redisClient)

	environment := config.AppConfig.Server.Environment
	authHandler := handler.NewAuthHandler(authService, environment)
	userHandler := handler.NewUserHandler(userService, authService)

	r := router.NewRouter(authHandler, userHandler, tokenSigner)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
