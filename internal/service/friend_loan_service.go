package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/calculator"
	"github.com/segyhp/loan-tracker/internal/config"
	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/internal/repository"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
	"github.com/segyhp/loan-tracker/pkg/utils"
)

// FriendLoanService tracks money lent to friends. Lending debits a card and
// every payback credits the card it was returned to.
type FriendLoanService struct {
	FriendLoanRepo  repository.FriendLoanRepository
	CardRepo        repository.CardRepository
	TransactionRepo repository.TransactionRepository
	config          *config.Config
	logger          *logrus.Logger
	now             func() time.Time
}

func NewFriendLoanService(
	friendLoanRepo repository.FriendLoanRepository,
	cardRepo repository.CardRepository,
	transactionRepo repository.TransactionRepository,
	config *config.Config,
	logger *logrus.Logger,
) *FriendLoanService {
	return &FriendLoanService{
		FriendLoanRepo:  friendLoanRepo,
		CardRepo:        cardRepo,
		TransactionRepo: transactionRepo,
		config:          config,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source
func (s *FriendLoanService) WithClock(now func() time.Time) *FriendLoanService {
	s.now = now
	return s
}

// CreateFriendLoan lends money from a card. Without an explicit schedule a
// single payback of the whole amount is due DefaultPaybackDays after lending.
func (s *FriendLoanService) CreateFriendLoan(ctx context.Context, request *domain.CreateFriendLoanRequest) (*domain.FriendLoan, error) {
	source := request.Source
	if source == "" {
		source = domain.TransactionSourceManual
	}
	if !source.IsValid() {
		return nil, customError.WrapValidation(fmt.Errorf("unknown transaction source %q", source))
	}

	if err := requireCard(ctx, s.CardRepo, request.CardID); err != nil {
		return nil, err
	}

	currency := request.Currency
	if currency == "" {
		currency = s.config.Business.DefaultCurrency
	}

	amount := utils.RoundCents(request.Amount)
	lendDate := request.LendDate.UTC()

	loan := &domain.FriendLoan{
		ID:          uuid.NewString(),
		FriendName:  request.FriendName,
		Amount:      amount,
		Currency:    currency,
		CardID:      request.CardID,
		LendDate:    lendDate,
		Description: request.Description,
		Status:      domain.FriendLoanStatusActive,
		CreatedAt:   s.now(),
	}

	if len(request.Payments) == 0 {
		loan.Payments = calculator.DefaultPayback(amount, lendDate)
	} else {
		loan.Payments = make([]domain.FriendLoanPayment, 0, len(request.Payments))
		for _, p := range request.Payments {
			loan.Payments = append(loan.Payments, domain.FriendLoanPayment{
				ID:      uuid.NewString(),
				Amount:  utils.RoundCents(p.Amount),
				DueDate: p.DueDate.UTC(),
				Status:  domain.PaymentStatusPending,
			})
		}
	}

	lending := &domain.Transaction{
		ID:           uuid.NewString(),
		Type:         domain.TransactionTypeExpense,
		Amount:       amount,
		Currency:     currency,
		CardID:       request.CardID,
		Description:  withDescription(fmt.Sprintf("Lent money to %s", loan.FriendName), loan.Description),
		Date:         lendDate,
		Source:       source,
		FriendLoanID: &loan.ID,
	}

	if err := s.FriendLoanRepo.Create(ctx, loan, lending); err != nil {
		if errors.Is(err, customError.ErrCardNotFound) {
			return nil, customError.WrapCardNotFound(request.CardID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.WithFields(logrus.Fields{
		"friend_loan_id": loan.ID,
		"card_id":        loan.CardID,
		"amount":         amount.String(),
		"paybacks":       len(loan.Payments),
	}).Info("Friend loan created")

	return loan, nil
}

func (s *FriendLoanService) GetFriendLoan(ctx context.Context, friendLoanID string) (*domain.FriendLoan, error) {
	return s.loadFriendLoan(ctx, friendLoanID)
}

// ListFriendLoans returns all friend loans, optionally only those with the given status
func (s *FriendLoanService) ListFriendLoans(ctx context.Context, status domain.FriendLoanStatus) ([]*domain.FriendLoan, error) {
	switch status {
	case "", domain.FriendLoanStatusActive, domain.FriendLoanStatusSettled:
	default:
		return nil, customError.WrapValidation(fmt.Errorf("unknown friend loan status %q", status))
	}

	loans, err := s.FriendLoanRepo.List(ctx, status)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

func (s *FriendLoanService) DeleteFriendLoan(ctx context.Context, friendLoanID string) error {
	err := s.FriendLoanRepo.Delete(ctx, friendLoanID)
	if errors.Is(err, customError.ErrFriendLoanNotFound) {
		return customError.WrapFriendLoanNotFound(friendLoanID)
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.logger.WithField("friend_loan_id", friendLoanID).Info("Friend loan deleted")
	return nil
}

// MarkPaybackPaid records a payback received into a card. The loan becomes
// settled once every payback is paid and they add up to the lent amount.
func (s *FriendLoanService) MarkPaybackPaid(ctx context.Context, friendLoanID, paymentID string, request *domain.MarkPaybackPaidRequest) (*domain.FriendLoan, error) {
	loan, err := s.loadFriendLoan(ctx, friendLoanID)
	if err != nil {
		return nil, err
	}

	payment := findPayback(loan, paymentID)
	if payment == nil {
		return nil, customError.WrapPaymentNotFound(friendLoanID, paymentID)
	}
	if payment.IsPaid() {
		return nil, customError.WrapPaymentAlreadyPaid(paymentID)
	}

	if err = requireCard(ctx, s.CardRepo, request.CardID); err != nil {
		return nil, err
	}

	paidDate := s.now()
	if request.PaidDate != nil && !request.PaidDate.IsZero() {
		paidDate = request.PaidDate.UTC()
	}

	updated := calculator.MarkPaybackAsPaid(loan, paymentID, request.CardID, paidDate)

	settlement := repository.PaybackSettlement{
		FriendLoanID: friendLoanID,
		PaymentID:    paymentID,
		CardID:       request.CardID,
		PaidDate:     paidDate,
		Status:       updated.Status,
		Transaction: &domain.Transaction{
			ID:                  uuid.NewString(),
			Type:                domain.TransactionTypeFriendLoanPayback,
			Amount:              payment.Amount,
			Currency:            loan.Currency,
			CardID:              request.CardID,
			Description:         withDescription(fmt.Sprintf("Received payback from %s", loan.FriendName), loan.Description),
			Date:                paidDate,
			Source:              domain.TransactionSourceManual,
			FriendLoanID:        &loan.ID,
			FriendLoanPaymentID: &payment.ID,
		},
	}

	if err = s.FriendLoanRepo.SettlePayback(ctx, settlement); err != nil {
		if errors.Is(err, customError.ErrFriendLoanNotFound) {
			return nil, customError.WrapFriendLoanNotFound(friendLoanID)
		}
		return nil, mapSettlementError(err, friendLoanID, paymentID, request.CardID)
	}

	s.logger.WithFields(logrus.Fields{
		"friend_loan_id": friendLoanID,
		"payment_id":     paymentID,
		"card_id":        request.CardID,
		"amount":         payment.Amount.String(),
		"status":         updated.Status,
	}).Info("Friend loan payback received")

	return &updated, nil
}

// GetOverview returns the amount still lent out and the paybacks due within
// the configured upcoming window
func (s *FriendLoanService) GetOverview(ctx context.Context) (*domain.FriendLoanOverview, error) {
	loans, err := s.FriendLoanRepo.List(ctx, domain.FriendLoanStatusActive)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	days := s.config.Business.UpcomingDays
	if days <= 0 {
		days = calculator.DefaultUpcomingDays
	}

	return &domain.FriendLoanOverview{
		TotalLent:        calculator.TotalLentAmount(loans),
		UpcomingPaybacks: calculator.UpcomingPaybacks(loans, s.now(), days),
	}, nil
}

// ListTransactions returns the lending and payback transactions of a friend loan
func (s *FriendLoanService) ListTransactions(ctx context.Context, friendLoanID string) ([]*domain.Transaction, error) {
	if _, err := s.loadFriendLoan(ctx, friendLoanID); err != nil {
		return nil, err
	}

	transactions, err := s.TransactionRepo.ListByFriendLoanID(ctx, friendLoanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return transactions, nil
}

func (s *FriendLoanService) loadFriendLoan(ctx context.Context, friendLoanID string) (*domain.FriendLoan, error) {
	loan, err := s.FriendLoanRepo.GetByID(ctx, friendLoanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapFriendLoanNotFound(friendLoanID)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

func findPayback(loan *domain.FriendLoan, paymentID string) *domain.FriendLoanPayment {
	for i := range loan.Payments {
		if loan.Payments[i].ID == paymentID {
			return &loan.Payments[i]
		}
	}
	return nil
}

func withDescription(base, description string) string {
	if description == "" {
		return base
	}
	return base + " - " + description
}
