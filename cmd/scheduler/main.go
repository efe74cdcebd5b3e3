package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/cache"
	"github.com/segyhp/loan-tracker/internal/config"
	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/internal/logger"
	"github.com/segyhp/loan-tracker/internal/repository"
	"github.com/segyhp/loan-tracker/internal/service"
)

// jobTimeout bounds a single run of any scheduled job
const jobTimeout = 5 * time.Minute

type loanJobs interface {
	RefreshLoanStatuses(ctx context.Context) (int, error)
	UpcomingReminders(ctx context.Context) ([]domain.PaymentReminder, error)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg.LogSettings())
	log.Info("Starting loan scheduler...")

	db, err := repository.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loanService := service.NewLoanService(
		repository.NewLoanRepository(db),
		repository.NewCardRepository(db),
		repository.NewTransactionRepository(db),
		cache.NewRedisSummaryCache(redisClient, cfg.Business.SummaryCacheTTL),
		cfg,
		log,
	)

	cronLogger := cron.PrintfLogger(log)
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(cfg.Location()),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	if err := setupCronJobs(c, cfg.Scheduler, loanService, log); err != nil {
		log.WithError(err).Fatal("Failed to schedule jobs")
	}

	// Start the scheduler
	c.Start()
	log.Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg config.SchedulerConfig, jobs loanJobs, log *logrus.Logger) error {
	// Daily status refresh (midnight by default)
	if _, err := c.AddFunc(cfg.StatusRefreshSpec, func() { refreshStatuses(jobs, log) }); err != nil {
		return err
	}

	// Daily payment reminders (9 AM by default)
	if _, err := c.AddFunc(cfg.ReminderSpec, func() { sendPaymentReminders(jobs, log) }); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"status_refresh": cfg.StatusRefreshSpec,
		"reminders":      cfg.ReminderSpec,
	}).Info("Cron jobs scheduled successfully")
	return nil
}

func refreshStatuses(jobs loanJobs, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	updated, err := jobs.RefreshLoanStatuses(ctx)
	if err != nil {
		log.WithError(err).Error("Loan status refresh failed")
		return
	}
	log.WithField("updated", updated).Info("Loan status refresh finished")
}

func sendPaymentReminders(jobs loanJobs, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	reminders, err := jobs.UpcomingReminders(ctx)
	if err != nil {
		log.WithError(err).Error("Payment reminder job failed")
		return
	}

	for _, reminder := range reminders {
		log.WithFields(logrus.Fields{
			"loan_id":    reminder.LoanID,
			"loan_name":  reminder.LoanName,
			"payment_id": reminder.Payment.ID,
			"amount":     reminder.Payment.Amount.String(),
			"currency":   reminder.Currency,
			"due_date":   reminder.Payment.DueDate.Format("2006-01-02"),
		}).Info("Payment due soon")
	}
	log.WithField("reminders", len(reminders)).Info("Payment reminder job finished")
}
