package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FriendLoanStatus string

const (
	FriendLoanStatusActive  FriendLoanStatus = "active"
	FriendLoanStatusSettled FriendLoanStatus = "settled"
)

// DefaultPaybackDays is how long after the lend date the single default
// payback falls due when no schedule is given
const DefaultPaybackDays = 30

// FriendLoan is money lent to a friend from a card and paid back in one or
// more paybacks
type FriendLoan struct {
	ID          string              `json:"id"`
	FriendName  string              `json:"friend_name"`
	Amount      decimal.Decimal     `json:"amount"`
	Currency    string              `json:"currency"`
	CardID      string              `json:"card_id"`
	LendDate    time.Time           `json:"lend_date"`
	Description string              `json:"description,omitempty"`
	Payments    []FriendLoanPayment `json:"payments"`
	Status      FriendLoanStatus    `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Clone returns a copy of the friend loan that shares no payments slice with l
func (l FriendLoan) Clone() FriendLoan {
	if l.Payments != nil {
		payments := make([]FriendLoanPayment, len(l.Payments))
		copy(payments, l.Payments)
		l.Payments = payments
	}
	return l
}

// FriendLoanPayment is one expected payback. PaybackCardID is the card the
// money was returned to.
type FriendLoanPayment struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	Status        PaymentStatus   `json:"status"`
	PaybackCardID *string         `json:"payback_card_id,omitempty"`
}

func (p FriendLoanPayment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

func (p FriendLoanPayment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

// UpcomingPayback is a pending payback coming due, with its loan's context
type UpcomingPayback struct {
	FriendLoanID string            `json:"friend_loan_id"`
	FriendName   string            `json:"friend_name"`
	Currency     string            `json:"currency"`
	Payment      FriendLoanPayment `json:"payment"`
}

// FriendLoanOverview is the dashboard view of money lent to friends
type FriendLoanOverview struct {
	TotalLent        decimal.Decimal   `json:"total_lent"`
	UpcomingPaybacks []UpcomingPayback `json:"upcoming_paybacks"`
}

type CreateFriendLoanRequest struct {
	FriendName  string                     `json:"friend_name" validate:"required,max=120"`
	Amount      decimal.Decimal            `json:"amount" validate:"gt=0"`
	Currency    string                     `json:"currency" validate:"omitempty,len=3"`
	CardID      string                     `json:"card_id" validate:"required"`
	LendDate    time.Time                  `json:"lend_date" validate:"required"`
	Description string                     `json:"description" validate:"max=500"`
	Source      TransactionSource          `json:"source" validate:"omitempty,oneof=manual sms"`
	Payments    []FriendLoanPaymentRequest `json:"payments" validate:"omitempty,dive"`
}

type FriendLoanPaymentRequest struct {
	Amount  decimal.Decimal `json:"amount" validate:"gt=0"`
	DueDate time.Time       `json:"due_date" validate:"required"`
}

type MarkPaybackPaidRequest struct {
	CardID   string     `json:"card_id" validate:"required"`
	PaidDate *time.Time `json:"paid_date,omitempty"`
}
