package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/cache"
	"github.com/segyhp/loan-tracker/internal/config"
	"github.com/segyhp/loan-tracker/internal/handler"
	"github.com/segyhp/loan-tracker/internal/logger"
	"github.com/segyhp/loan-tracker/internal/repository"
	"github.com/segyhp/loan-tracker/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg.LogSettings())

	if cfg.Database.AutoMigrate {
		if err := repository.RunMigrations(cfg.Database.DSN()); err != nil {
			log.WithError(err).Fatal("Failed to run migrations")
		}
		log.Info("Database migrations applied")
	}

	// Initialize database
	db, err := repository.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	loanRepo := repository.NewLoanRepository(db)
	cardRepo := repository.NewCardRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	friendLoanRepo := repository.NewFriendLoanRepository(db)
	summaryCache := cache.NewRedisSummaryCache(redisClient, cfg.Business.SummaryCacheTTL)

	// Initialize services
	loanService := service.NewLoanService(loanRepo, cardRepo, transactionRepo, summaryCache, cfg, log)
	friendLoanService := service.NewFriendLoanService(friendLoanRepo, cardRepo, transactionRepo, cfg, log)
	cardService := service.NewCardService(cardRepo, cfg, log)

	healthHandler := handler.NewHealthHandler(map[string]handler.CheckFunc{
		"database": handler.DatabaseCheck(db),
		"redis":    handler.RedisCheck(redisClient),
	}, cfg.Health.Timeout, log)

	router := handler.NewRouter(
		handler.NewLoanHandler(loanService, log),
		handler.NewFriendLoanHandler(friendLoanService, log),
		handler.NewCardHandler(cardService, log),
		healthHandler,
		log,
	)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
