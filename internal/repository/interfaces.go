package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-tracker/internal/domain"
)

// PaymentSettlement describes a loan installment being paid from a card
type PaymentSettlement struct {
	LoanID      string
	PaymentID   string
	CardID      string
	PaidDate    time.Time
	LoanStatus  domain.LoanStatus
	Transaction *domain.Transaction
}

// WageFeeSettlement describes a loan's wage fee being paid from a card
type WageFeeSettlement struct {
	LoanID      string
	CardID      string
	Amount      decimal.Decimal
	Transaction *domain.Transaction
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create stores a loan together with its payment schedule
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan with its payments, or sql.ErrNoRows
	GetByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// List retrieves loans, newest first, optionally filtered by status
	List(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error)

	// ListUnsettled retrieves every loan that is not completed
	ListUnsettled(ctx context.Context) ([]*domain.Loan, error)

	// UpdateStatus stores a recomputed loan status
	UpdateStatus(ctx context.Context, loanID string, status domain.LoanStatus) error

	// ReplacePayments swaps a loan's whole schedule
	ReplacePayments(ctx context.Context, loanID string, payments []domain.LoanPayment) error

	// SettlePayment marks a payment paid, debits the card and records the transaction atomically
	SettlePayment(ctx context.Context, settlement PaymentSettlement) error

	// SettleWageFee marks the wage fee paid, debits the card and records the transaction atomically
	SettleWageFee(ctx context.Context, settlement WageFeeSettlement) error

	// Delete removes a loan and its payments
	Delete(ctx context.Context, loanID string) error
}

// CardRepository defines the interface for card data operations
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card, or sql.ErrNoRows
	GetByID(ctx context.Context, cardID string) (*domain.Card, error)

	List(ctx context.Context) ([]*domain.Card, error)
}

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	// ListByLoanID retrieves the transactions recorded against a loan, newest first
	ListByLoanID(ctx context.Context, loanID string) ([]*domain.Transaction, error)

	// ListByFriendLoanID retrieves the lending and payback transactions of a friend loan, newest first
	ListByFriendLoanID(ctx context.Context, friendLoanID string) ([]*domain.Transaction, error)
}

// PaybackSettlement describes a friend loan payback being received into a card
type PaybackSettlement struct {
	FriendLoanID string
	PaymentID    string
	CardID       string
	PaidDate     time.Time
	Status       domain.FriendLoanStatus
	Transaction  *domain.Transaction
}

// FriendLoanRepository defines the interface for friend loan data operations
type FriendLoanRepository interface {
	// Create stores a friend loan and its paybacks, debits the lending card
	// and records the lending transaction atomically
	Create(ctx context.Context, loan *domain.FriendLoan, lending *domain.Transaction) error

	// GetByID retrieves a friend loan with its paybacks, or sql.ErrNoRows
	GetByID(ctx context.Context, friendLoanID string) (*domain.FriendLoan, error)

	// List retrieves friend loans, newest first, optionally filtered by status
	List(ctx context.Context, status domain.FriendLoanStatus) ([]*domain.FriendLoan, error)

	// SettlePayback marks a payback paid, credits the card and records the transaction atomically
	SettlePayback(ctx context.Context, settlement PaybackSettlement) error

	// Delete removes a friend loan and its paybacks
	Delete(ctx context.Context, friendLoanID string) error
}
