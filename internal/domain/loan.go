package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// DefaultPaymentDay is used when a loan has no fixed payment day
const DefaultPaymentDay = 1

// Loan represents a loan entity. Status is a projection of the payments
// and is recomputed on read; it is never the source of truth for the balance.
type Loan struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	PrincipalAmount      decimal.Decimal `json:"principal_amount"`
	TotalPayback         decimal.Decimal `json:"total_payback"`
	WageFee              decimal.Decimal `json:"wage_fee"`
	WageFeePaid          bool            `json:"wage_fee_paid"`
	WageFeePaymentCardID *string         `json:"wage_fee_payment_card_id,omitempty"`
	StartDate            time.Time       `json:"start_date"`
	EndDate              time.Time       `json:"end_date"`
	PaymentDay           *int            `json:"payment_day,omitempty"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	Payments             []LoanPayment   `json:"payments"`
	Status               LoanStatus      `json:"status"`
	Currency             string          `json:"currency"`
	CreatedAt            time.Time       `json:"created_at"`
}

// EffectivePaymentDay returns the fixed payment day or DefaultPaymentDay
func (l *Loan) EffectivePaymentDay() int {
	if l.PaymentDay == nil {
		return DefaultPaymentDay
	}
	return *l.PaymentDay
}

// Clone returns a copy of the loan that shares no payments slice with l
func (l Loan) Clone() Loan {
	if l.Payments != nil {
		payments := make([]LoanPayment, len(l.Payments))
		copy(payments, l.Payments)
		l.Payments = payments
	}
	return l
}

// LoanSummary aggregates the derived state of a loan at a point in time
type LoanSummary struct {
	LoanID             string          `json:"loan_id"`
	RemainingBalance   decimal.Decimal `json:"remaining_balance"`
	NextPayment        *LoanPayment    `json:"next_payment"`
	OverduePayments    []LoanPayment   `json:"overdue_payments"`
	UpcomingPayments   []LoanPayment   `json:"upcoming_payments"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
	Status             LoanStatus      `json:"status"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	Name            string           `json:"name" validate:"required,max=120"`
	PrincipalAmount decimal.Decimal  `json:"principal_amount" validate:"gt=0"`
	InterestRate    *decimal.Decimal `json:"interest_rate,omitempty" validate:"omitempty,gte=0"`
	TotalPayback    *decimal.Decimal `json:"total_payback,omitempty" validate:"omitempty,gt=0"`
	WageFee         decimal.Decimal  `json:"wage_fee" validate:"gte=0"`
	StartDate       time.Time        `json:"start_date" validate:"required"`
	EndDate         time.Time        `json:"end_date" validate:"required,gtfield=StartDate"`
	PaymentDay      *int             `json:"payment_day,omitempty" validate:"omitempty,min=1,max=31"`
	Currency        string           `json:"currency" validate:"omitempty,len=3"`
}

type CreateLoanResponse struct {
	Loan     *Loan         `json:"loan"`
	Schedule []LoanPayment `json:"schedule"`
}

// QuoteRequest carries the live form state; InterestRate wins when both are set
type QuoteRequest struct {
	PrincipalAmount decimal.Decimal  `json:"principal_amount" validate:"gt=0"`
	InterestRate    *decimal.Decimal `json:"interest_rate,omitempty" validate:"omitempty,gte=0"`
	TotalPayback    *decimal.Decimal `json:"total_payback,omitempty" validate:"omitempty,gte=0"`
	StartDate       time.Time        `json:"start_date" validate:"required"`
	EndDate         time.Time        `json:"end_date" validate:"required"`
}

type QuoteResponse struct {
	Months       int             `json:"months"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TotalPayback decimal.Decimal `json:"total_payback"`
}

type PeriodicPaymentsRequest struct {
	DayOfMonth     int `json:"day_of_month" validate:"required,min=1,max=31"`
	NumberOfMonths int `json:"number_of_months" validate:"required,min=1,max=600"`
}

type PayWageFeeRequest struct {
	CardID string `json:"card_id" validate:"required"`
}
