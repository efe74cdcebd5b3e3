package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/internal/repository"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) List(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListUnsettled(ctx context.Context) ([]*domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdateStatus(ctx context.Context, loanID string, status domain.LoanStatus) error {
	args := m.Called(ctx, loanID, status)
	return args.Error(0)
}

func (m *MockLoanRepository) ReplacePayments(ctx context.Context, loanID string, payments []domain.LoanPayment) error {
	args := m.Called(ctx, loanID, payments)
	return args.Error(0)
}

func (m *MockLoanRepository) SettlePayment(ctx context.Context, settlement repository.PaymentSettlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

func (m *MockLoanRepository) SettleWageFee(ctx context.Context, settlement repository.WageFeeSettlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

func (m *MockLoanRepository) Delete(ctx context.Context, loanID string) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Create(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) GetByID(ctx context.Context, cardID string) (*domain.Card, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) List(ctx context.Context) ([]*domain.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListByLoanID(ctx context.Context, loanID string) ([]*domain.Transaction, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByFriendLoanID(ctx context.Context, friendLoanID string) ([]*domain.Transaction, error) {
	args := m.Called(ctx, friendLoanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

type MockFriendLoanRepository struct {
	mock.Mock
}

func (m *MockFriendLoanRepository) Create(ctx context.Context, loan *domain.FriendLoan, lending *domain.Transaction) error {
	args := m.Called(ctx, loan, lending)
	return args.Error(0)
}

func (m *MockFriendLoanRepository) GetByID(ctx context.Context, friendLoanID string) (*domain.FriendLoan, error) {
	args := m.Called(ctx, friendLoanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FriendLoan), args.Error(1)
}

func (m *MockFriendLoanRepository) List(ctx context.Context, status domain.FriendLoanStatus) ([]*domain.FriendLoan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FriendLoan), args.Error(1)
}

func (m *MockFriendLoanRepository) SettlePayback(ctx context.Context, settlement repository.PaybackSettlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

func (m *MockFriendLoanRepository) Delete(ctx context.Context, friendLoanID string) error {
	args := m.Called(ctx, friendLoanID)
	return args.Error(0)
}

type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) Get(ctx context.Context, loanID string) (*domain.LoanSummary, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanSummary), args.Error(1)
}

func (m *MockSummaryCache) Set(ctx context.Context, summary *domain.LoanSummary, ttl time.Duration) error {
	args := m.Called(ctx, summary, ttl)
	return args.Error(0)
}

func (m *MockSummaryCache) Invalidate(ctx context.Context, loanID string) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}
