package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome            TransactionType = "income"
	TransactionTypeExpense           TransactionType = "expense"
	TransactionTypeTransfer          TransactionType = "transfer"
	TransactionTypeLoanPayment       TransactionType = "loan_payment"
	TransactionTypeFriendLoanPayback TransactionType = "friend_loan_payback"
)

type TransactionSource string

const (
	TransactionSourceManual TransactionSource = "manual"
	TransactionSourceSMS    TransactionSource = "sms"
)

// IsValid reports whether s is one of the known sources
func (s TransactionSource) IsValid() bool {
	switch s {
	case TransactionSourceManual, TransactionSourceSMS:
		return true
	default:
		return false
	}
}

// Transaction records money moving out of or into a card
type Transaction struct {
	ID                  string            `json:"id"`
	Type                TransactionType   `json:"type"`
	Amount              decimal.Decimal   `json:"amount"`
	Currency            string            `json:"currency"`
	CardID              string            `json:"card_id"`
	Description         string            `json:"description"`
	Date                time.Time         `json:"date"`
	Source              TransactionSource `json:"source"`
	LoanID              *string           `json:"loan_id,omitempty"`
	LoanPaymentID       *string           `json:"loan_payment_id,omitempty"`
	FriendLoanID        *string           `json:"friend_loan_id,omitempty"`
	FriendLoanPaymentID *string           `json:"friend_loan_payment_id,omitempty"`
}
