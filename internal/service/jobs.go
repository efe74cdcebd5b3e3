package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/calculator"
	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

// RefreshLoanStatuses recomputes the status of every unsettled loan and
// persists the ones that changed. It returns how many loans were updated.
func (s *LoanService) RefreshLoanStatuses(ctx context.Context) (int, error) {
	loans, err := s.LoanRepo.ListUnsettled(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	now := s.now()
	updated := 0
	for _, loan := range loans {
		status := calculator.LoanStatusAt(loan, now)
		if status == loan.Status {
			continue
		}

		if err := s.LoanRepo.UpdateStatus(ctx, loan.ID, status); err != nil {
			s.logger.WithError(err).WithField("loan_id", loan.ID).Error("Failed to update loan status")
			continue
		}

		s.invalidateSummary(ctx, loan.ID)
		s.logger.WithFields(logrus.Fields{
			"loan_id": loan.ID,
			"from":    loan.Status,
			"to":      status,
		}).Info("Loan status changed")
		updated++
	}

	return updated, nil
}

// UpcomingReminders lists pending installments due within the configured
// reminder window, earliest first per loan
func (s *LoanService) UpcomingReminders(ctx context.Context) ([]domain.PaymentReminder, error) {
	loans, err := s.LoanRepo.ListUnsettled(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.now()
	reminders := make([]domain.PaymentReminder, 0)
	for _, loan := range loans {
		for _, payment := range calculator.UpcomingPayments(loan, now, s.config.Business.ReminderDaysAhead) {
			reminders = append(reminders, domain.PaymentReminder{
				LoanID:   loan.ID,
				LoanName: loan.Name,
				Currency: loan.Currency,
				Payment:  payment,
			})
		}
	}

	return reminders, nil
}
