package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/cache"
	"github.com/segyhp/loan-tracker/internal/calculator"
	"github.com/segyhp/loan-tracker/internal/config"
	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/internal/repository"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
	"github.com/segyhp/loan-tracker/pkg/utils"
)

type LoanService struct {
	LoanRepo        repository.LoanRepository
	CardRepo        repository.CardRepository
	TransactionRepo repository.TransactionRepository
	cache           cache.SummaryCache
	config          *config.Config
	logger          *logrus.Logger
	now             func() time.Time
}

// NewLoanService wires the loan use cases. summaryCache may be nil, in which
// case summaries are computed on every request.
func NewLoanService(
	loanRepo repository.LoanRepository,
	cardRepo repository.CardRepository,
	transactionRepo repository.TransactionRepository,
	summaryCache cache.SummaryCache,
	config *config.Config,
	logger *logrus.Logger,
) *LoanService {
	return &LoanService{
		LoanRepo:        loanRepo,
		CardRepo:        cardRepo,
		TransactionRepo: transactionRepo,
		cache:           summaryCache,
		config:          config,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source
func (s *LoanService) WithClock(now func() time.Time) *LoanService {
	s.now = now
	return s
}

// Quote resolves the missing half of the interest rate / total payback pair
func (s *LoanService) Quote(ctx context.Context, request *domain.QuoteRequest) (*domain.QuoteResponse, error) {
	if !request.EndDate.After(request.StartDate) {
		return nil, customError.WrapInvalidLoanPeriod(customError.ErrInvalidLoanPeriod)
	}

	terms := calculator.ResolveTerms(utils.RoundCents(request.PrincipalAmount),
		roundCents(request.InterestRate), roundCents(request.TotalPayback), request.StartDate, request.EndDate)

	return &domain.QuoteResponse{
		Months:       terms.Months,
		InterestRate: terms.InterestRate,
		TotalPayback: terms.TotalPayback,
	}, nil
}

// CreateLoan creates a new loan with its payment schedule
func (s *LoanService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, []domain.LoanPayment, error) {
	if request.InterestRate != nil && request.TotalPayback != nil {
		return nil, nil, customError.WrapInvalidLoanTerms()
	}

	// Amounts are stored with 2 decimals, so the schedule is built from the
	// same rounded values the database keeps
	principal := utils.RoundCents(request.PrincipalAmount)
	terms := calculator.ResolveTerms(principal, roundCents(request.InterestRate), roundCents(request.TotalPayback),
		request.StartDate, request.EndDate)

	currency := request.Currency
	if currency == "" {
		currency = s.config.Business.DefaultCurrency
	}

	paymentDay := request.PaymentDay
	if paymentDay == nil && s.config.Business.DefaultPaymentDay != domain.DefaultPaymentDay {
		day := s.config.Business.DefaultPaymentDay
		paymentDay = &day
	}

	loan := &domain.Loan{
		ID:              uuid.NewString(),
		Name:            request.Name,
		PrincipalAmount: principal,
		TotalPayback:    terms.TotalPayback,
		WageFee:         utils.RoundCents(request.WageFee),
		StartDate:       request.StartDate,
		EndDate:         request.EndDate,
		PaymentDay:      paymentDay,
		InterestRate:    terms.InterestRate,
		Status:          domain.LoanStatusActive,
		Currency:        currency,
		CreatedAt:       s.now(),
	}

	payments, err := calculator.CalculateLoanSchedule(calculator.TermsOf(loan))
	if err != nil {
		return nil, nil, customError.WrapInvalidLoanPeriod(err)
	}
	loan.Payments = payments
	loan.Status = calculator.LoanStatusAt(loan, s.now())

	if err = s.LoanRepo.Create(ctx, loan); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	s.logger.WithFields(logrus.Fields{
		"loan_id":       loan.ID,
		"total_payback": loan.TotalPayback.String(),
		"payments":      len(payments),
	}).Info("Loan created")

	return loan, payments, nil
}

// GetLoan returns a loan with its status recomputed for the current time
func (s *LoanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	updated := calculator.UpdateLoanStatus(loan, s.now())
	return &updated, nil
}

// ListLoans returns all loans, optionally only those whose status, recomputed
// for the current time, matches the given one.
func (s *LoanService) ListLoans(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	switch status {
	case "", domain.LoanStatusActive, domain.LoanStatusCompleted, domain.LoanStatusDefaulted:
	default:
		return nil, customError.WrapValidation(fmt.Errorf("unknown loan status %q", status))
	}

	// The stored status lags behind the clock, so filter after recomputing
	loans, err := s.LoanRepo.List(ctx, "")
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.now()
	result := make([]*domain.Loan, 0, len(loans))
	for _, loan := range loans {
		updated := calculator.UpdateLoanStatus(loan, now)
		if status == "" || updated.Status == status {
			result = append(result, &updated)
		}
	}

	return result, nil
}

func (s *LoanService) DeleteLoan(ctx context.Context, loanID string) error {
	err := s.LoanRepo.Delete(ctx, loanID)
	if errors.Is(err, customError.ErrLoanNotFound) {
		return customError.WrapLoanNotFound(loanID)
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.invalidateSummary(ctx, loanID)
	s.logger.WithField("loan_id", loanID).Info("Loan deleted")
	return nil
}

// GetSchedule returns the loan's payments ordered by due date
func (s *LoanService) GetSchedule(ctx context.Context, loanID string) ([]domain.LoanPayment, error) {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	return calculator.SortByDueDate(loan.Payments), nil
}

// GetSummary returns the loan summary, served from cache when possible
func (s *LoanService) GetSummary(ctx context.Context, loanID string) (*domain.LoanSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, loanID)
		if err != nil {
			s.logger.WithError(customError.WrapCacheError(err)).WithField("loan_id", loanID).Warn("Summary cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := calculator.LoanSummary(loan, now, s.config.Business.UpcomingDays)

	if s.cache != nil {
		if err := s.cache.Set(ctx, &summary, summaryTTL(loan, now, s.config.Business.UpcomingDays)); err != nil {
			s.logger.WithError(customError.WrapCacheError(err)).WithField("loan_id", loanID).Warn("Summary cache write failed")
		}
	}

	return &summary, nil
}

// MarkPaymentPaid settles one installment from a card and records the
// matching loan_payment transaction
func (s *LoanService) MarkPaymentPaid(ctx context.Context, loanID, paymentID string, request *domain.MarkPaymentPaidRequest) (*domain.Loan, error) {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	payment := findPayment(loan, paymentID)
	if payment == nil {
		return nil, customError.WrapPaymentNotFound(loanID, paymentID)
	}
	if payment.IsPaid() {
		return nil, customError.WrapPaymentAlreadyPaid(paymentID)
	}

	if err = s.requireCard(ctx, request.CardID); err != nil {
		return nil, err
	}

	now := s.now()
	paidDate := now
	if request.PaidDate != nil && !request.PaidDate.IsZero() {
		paidDate = request.PaidDate.UTC()
	}

	updated := calculator.MarkPaymentAsPaid(loan, paymentID, paidDate, now)
	for i := range updated.Payments {
		if updated.Payments[i].ID == paymentID {
			cardID := request.CardID
			updated.Payments[i].PaymentCardID = &cardID
		}
	}
	updated = calculator.UpdateLoanStatus(&updated, now)

	settlement := repository.PaymentSettlement{
		LoanID:     loanID,
		PaymentID:  paymentID,
		CardID:     request.CardID,
		PaidDate:   paidDate,
		LoanStatus: updated.Status,
		Transaction: &domain.Transaction{
			ID:            uuid.NewString(),
			Type:          domain.TransactionTypeLoanPayment,
			Amount:        payment.Amount,
			Currency:      loan.Currency,
			CardID:        request.CardID,
			Description:   fmt.Sprintf("Loan payment: %s", loan.Name),
			Date:          paidDate,
			Source:        domain.TransactionSourceManual,
			LoanID:        &loan.ID,
			LoanPaymentID: &payment.ID,
		},
	}

	if err = s.LoanRepo.SettlePayment(ctx, settlement); err != nil {
		return nil, mapSettlementError(err, loanID, paymentID, request.CardID)
	}

	s.invalidateSummary(ctx, loanID)
	s.logger.WithFields(logrus.Fields{
		"loan_id":    loanID,
		"payment_id": paymentID,
		"card_id":    request.CardID,
		"amount":     payment.Amount.String(),
		"status":     updated.Status,
	}).Info("Loan payment settled")

	return &updated, nil
}

// PayWageFee settles the loan's one-off wage fee from a card
func (s *LoanService) PayWageFee(ctx context.Context, loanID string, request *domain.PayWageFeeRequest) (*domain.Loan, error) {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.WageFeePaid {
		return nil, customError.WrapWageFeeAlreadyPaid(loanID)
	}
	if !loan.WageFee.IsPositive() {
		return nil, customError.WrapValidation(errors.New("loan has no wage fee"))
	}

	if err = s.requireCard(ctx, request.CardID); err != nil {
		return nil, err
	}

	now := s.now()
	settlement := repository.WageFeeSettlement{
		LoanID: loanID,
		CardID: request.CardID,
		Amount: loan.WageFee,
		Transaction: &domain.Transaction{
			ID:          uuid.NewString(),
			Type:        domain.TransactionTypeExpense,
			Amount:      loan.WageFee,
			Currency:    loan.Currency,
			CardID:      request.CardID,
			Description: fmt.Sprintf("Loan wage fee: %s", loan.Name),
			Date:        now,
			Source:      domain.TransactionSourceManual,
			LoanID:      &loan.ID,
		},
	}

	if err = s.LoanRepo.SettleWageFee(ctx, settlement); err != nil {
		return nil, mapSettlementError(err, loanID, "", request.CardID)
	}

	updated := calculator.UpdateLoanStatus(loan, now)
	updated.WageFeePaid = true
	cardID := request.CardID
	updated.WageFeePaymentCardID = &cardID

	s.invalidateSummary(ctx, loanID)
	s.logger.WithFields(logrus.Fields{
		"loan_id": loanID,
		"card_id": request.CardID,
		"amount":  loan.WageFee.String(),
	}).Info("Loan wage fee paid")

	return &updated, nil
}

// SetupPeriodicPayments replaces the schedule of a loan that has no paid
// installments with numberOfMonths payments on dayOfMonth
func (s *LoanService) SetupPeriodicPayments(ctx context.Context, loanID string, request *domain.PeriodicPaymentsRequest) (*domain.Loan, error) {
	loan, err := s.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	for _, p := range loan.Payments {
		if p.IsPaid() {
			return nil, customError.WrapValidation(errors.New("schedule already has paid installments"))
		}
	}

	payments, err := calculator.PeriodicPayments(loan, request.DayOfMonth, request.NumberOfMonths)
	if err != nil {
		return nil, customError.WrapInvalidLoanPeriod(err)
	}

	if err = s.LoanRepo.ReplacePayments(ctx, loanID, payments); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	updated := loan.Clone()
	updated.Payments = payments
	updated = calculator.UpdateLoanStatus(&updated, s.now())

	if updated.Status != loan.Status {
		if err = s.LoanRepo.UpdateStatus(ctx, loanID, updated.Status); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
	}

	s.invalidateSummary(ctx, loanID)
	s.logger.WithFields(logrus.Fields{
		"loan_id":  loanID,
		"day":      request.DayOfMonth,
		"payments": len(payments),
	}).Info("Loan schedule replaced with periodic payments")

	return &updated, nil
}

// ListTransactions returns the transactions recorded against a loan
func (s *LoanService) ListTransactions(ctx context.Context, loanID string) ([]*domain.Transaction, error) {
	if _, err := s.loadLoan(ctx, loanID); err != nil {
		return nil, err
	}

	transactions, err := s.TransactionRepo.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return transactions, nil
}

func (s *LoanService) loadLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapLoanNotFound(loanID)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

func (s *LoanService) requireCard(ctx context.Context, cardID string) error {
	return requireCard(ctx, s.CardRepo, cardID)
}

func requireCard(ctx context.Context, cards repository.CardRepository, cardID string) error {
	_, err := cards.GetByID(ctx, cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapCardNotFound(cardID)
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (s *LoanService) invalidateSummary(ctx context.Context, loanID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, loanID); err != nil {
		s.logger.WithError(customError.WrapCacheError(err)).WithField("loan_id", loanID).Warn("Summary cache invalidation failed")
	}
}

func findPayment(loan *domain.Loan, paymentID string) *domain.LoanPayment {
	for i := range loan.Payments {
		if loan.Payments[i].ID == paymentID {
			return &loan.Payments[i]
		}
	}
	return nil
}

// mapSettlementError turns repository sentinels raised inside the settlement
// transaction into business errors
func mapSettlementError(err error, loanID, paymentID, cardID string) error {
	switch {
	case errors.Is(err, customError.ErrPaymentAlreadyPaid):
		return customError.WrapPaymentAlreadyPaid(paymentID)
	case errors.Is(err, customError.ErrPaymentNotFound):
		return customError.WrapPaymentNotFound(loanID, paymentID)
	case errors.Is(err, customError.ErrWageFeeAlreadyPaid):
		return customError.WrapWageFeeAlreadyPaid(loanID)
	case errors.Is(err, customError.ErrCardNotFound):
		return customError.WrapCardNotFound(cardID)
	case errors.Is(err, customError.ErrLoanNotFound):
		return customError.WrapLoanNotFound(loanID)
	default:
		return customError.WrapDatabaseError(err)
	}
}

// summaryTTL keeps a cached summary until just after its next change.
// Zero leaves the cache's own TTL in place.
func summaryTTL(loan *domain.Loan, now time.Time, upcomingDays int) time.Duration {
	changesAt := calculator.SummaryChangesAt(loan, now, upcomingDays)
	if changesAt.IsZero() {
		return 0
	}
	return changesAt.Sub(now) + time.Millisecond
}

func roundCents(amount *decimal.Decimal) *decimal.Decimal {
	if amount == nil {
		return nil
	}
	rounded := utils.RoundCents(*amount)
	return &rounded
}
