package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/loan-tracker/internal/domain"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Quote(ctx context.Context, request *domain.QuoteRequest) (*domain.QuoteResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuoteResponse), args.Error(1)
}

func (m *MockLoanService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, []domain.LoanPayment, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Loan), args.Get(1).([]domain.LoanPayment), args.Error(2)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanService) DeleteLoan(ctx context.Context, loanID string) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

func (m *MockLoanService) GetSchedule(ctx context.Context, loanID string) ([]domain.LoanPayment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanPayment), args.Error(1)
}

func (m *MockLoanService) GetSummary(ctx context.Context, loanID string) (*domain.LoanSummary, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanSummary), args.Error(1)
}

func (m *MockLoanService) MarkPaymentPaid(ctx context.Context, loanID, paymentID string, request *domain.MarkPaymentPaidRequest) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, paymentID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) PayWageFee(ctx context.Context, loanID string, request *domain.PayWageFeeRequest) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) SetupPeriodicPayments(ctx context.Context, loanID string, request *domain.PeriodicPaymentsRequest) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) ListTransactions(ctx context.Context, loanID string) ([]*domain.Transaction, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) CreateCard(ctx context.Context, request *domain.CreateCardRequest) (*domain.Card, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardService) ListCards(ctx context.Context) ([]*domain.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

type MockFriendLoanService struct {
	mock.Mock
}

func (m *MockFriendLoanService) CreateFriendLoan(ctx context.Context, request *domain.CreateFriendLoanRequest) (*domain.FriendLoan, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FriendLoan), args.Error(1)
}

func (m *MockFriendLoanService) GetFriendLoan(ctx context.Context, friendLoanID string) (*domain.FriendLoan, error) {
	args := m.Called(ctx, friendLoanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FriendLoan), args.Error(1)
}

func (m *MockFriendLoanService) ListFriendLoans(ctx context.Context, status domain.FriendLoanStatus) ([]*domain.FriendLoan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FriendLoan), args.Error(1)
}

func (m *MockFriendLoanService) DeleteFriendLoan(ctx context.Context, friendLoanID string) error {
	args := m.Called(ctx, friendLoanID)
	return args.Error(0)
}

func (m *MockFriendLoanService) MarkPaybackPaid(ctx context.Context, friendLoanID, paymentID string, request *domain.MarkPaybackPaidRequest) (*domain.FriendLoan, error) {
	args := m.Called(ctx, friendLoanID, paymentID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FriendLoan), args.Error(1)
}

func (m *MockFriendLoanService) GetOverview(ctx context.Context) (*domain.FriendLoanOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FriendLoanOverview), args.Error(1)
}

func (m *MockFriendLoanService) ListTransactions(ctx context.Context, friendLoanID string) ([]*domain.Transaction, error) {
	args := m.Called(ctx, friendLoanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}
