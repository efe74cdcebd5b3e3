package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-tracker/internal/config"
	"github.com/segyhp/loan-tracker/internal/domain"
)

type stubJobs struct {
	refreshed  int
	refreshErr error
	reminders  []domain.PaymentReminder
}

func (s *stubJobs) RefreshLoanStatuses(ctx context.Context) (int, error) {
	return s.refreshed, s.refreshErr
}

func (s *stubJobs) UpcomingReminders(ctx context.Context) ([]domain.PaymentReminder, error) {
	return s.reminders, nil
}

func bufferLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	return log, &buf
}

func TestSetupCronJobs(t *testing.T) {
	log, _ := bufferLogger()
	c := cron.New(cron.WithSeconds())

	err := setupCronJobs(c, config.SchedulerConfig{
		StatusRefreshSpec: "0 0 0 * * *",
		ReminderSpec:      "0 0 9 * * *",
	}, &stubJobs{}, log)

	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
}

func TestSetupCronJobs_InvalidSpec(t *testing.T) {
	log, _ := bufferLogger()
	c := cron.New(cron.WithSeconds())

	err := setupCronJobs(c, config.SchedulerConfig{
		StatusRefreshSpec: "not a spec",
		ReminderSpec:      "0 0 9 * * *",
	}, &stubJobs{}, log)

	assert.Error(t, err)
}

func TestJobFunctions(t *testing.T) {
	log, buf := bufferLogger()

	refreshStatuses(&stubJobs{refreshed: 2}, log)
	assert.Contains(t, buf.String(), "updated=2")

	buf.Reset()
	refreshStatuses(&stubJobs{refreshErr: errors.New("db down")}, log)
	assert.Contains(t, buf.String(), "db down")

	buf.Reset()
	sendPaymentReminders(&stubJobs{reminders: []domain.PaymentReminder{{
		LoanID:  "loan-1",
		Payment: domain.LoanPayment{ID: "p1", Amount: decimal.NewFromInt(100)},
	}}}, log)
	assert.Contains(t, buf.String(), "loan_id=loan-1")
	assert.Contains(t, buf.String(), "reminders=1")
}
