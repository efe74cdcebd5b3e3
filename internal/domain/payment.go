package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

// Overdue is derived from pending + past due and is not written by this service
const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// LoanPayment is one installment of a loan schedule
type LoanPayment struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	Status        PaymentStatus   `json:"status"`
	PaymentCardID *string         `json:"payment_card_id,omitempty"`
}

func (p LoanPayment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

func (p LoanPayment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

type MarkPaymentPaidRequest struct {
	CardID   string     `json:"card_id" validate:"required"`
	PaidDate *time.Time `json:"paid_date,omitempty"`
}

// PaymentReminder is a pending installment coming due soon
type PaymentReminder struct {
	LoanID   string      `json:"loan_id"`
	LoanName string      `json:"loan_name"`
	Currency string      `json:"currency"`
	Payment  LoanPayment `json:"payment"`
}
