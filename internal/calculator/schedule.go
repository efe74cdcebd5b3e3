// Package calculator holds the loan repayment arithmetic: schedule
// generation, interest and payback conversion and the summaries derived
// from a loan's payments. It performs no I/O and keeps no state; anything
// that depends on the current time takes it as an argument.
package calculator

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
	"github.com/segyhp/loan-tracker/pkg/utils"
)

// ScheduleTerms is the part of a loan needed to build its payment schedule
type ScheduleTerms struct {
	TotalPayback decimal.Decimal
	StartDate    time.Time
	EndDate      time.Time
	PaymentDay   int
}

// TermsOf extracts the schedule terms from a loan
func TermsOf(loan *domain.Loan) ScheduleTerms {
	return ScheduleTerms{
		TotalPayback: loan.TotalPayback,
		StartDate:    loan.StartDate,
		EndDate:      loan.EndDate,
		PaymentDay:   loan.EffectivePaymentDay(),
	}
}

// CalculateLoanSchedule generates the monthly payment schedule for the terms.
// Installments are rounded to whole units and the last one absorbs the
// rounding drift, so the amounts always sum to TotalPayback.
func CalculateLoanSchedule(terms ScheduleTerms) ([]domain.LoanPayment, error) {
	if !terms.EndDate.After(terms.StartDate) {
		return nil, customError.ErrInvalidLoanPeriod
	}

	paymentDay := terms.PaymentDay
	if paymentDay == 0 {
		paymentDay = domain.DefaultPaymentDay
	}
	if paymentDay < 1 || paymentDay > 31 {
		return nil, customError.ErrInvalidPaymentDay
	}

	first := FirstPaymentDate(terms.StartDate, paymentDay)
	count := paymentCount(first, paymentDay, terms.EndDate)

	return buildSchedule(first, paymentDay, count, terms.TotalPayback), nil
}

// PeriodicPayments regenerates a loan's schedule as exactly numberOfMonths
// installments on dayOfMonth, starting in the loan's start month.
func PeriodicPayments(loan *domain.Loan, dayOfMonth, numberOfMonths int) ([]domain.LoanPayment, error) {
	if numberOfMonths < 1 {
		return nil, customError.ErrInvalidPaymentCount
	}
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return nil, customError.ErrInvalidPaymentDay
	}

	first := utils.SetDayOfMonth(loan.StartDate, dayOfMonth)
	return buildSchedule(first, dayOfMonth, numberOfMonths, loan.TotalPayback), nil
}

// FirstPaymentDate moves start to paymentDay of its month, or of the next
// month when that day has already passed, so the first payment is never
// before the loan starts.
func FirstPaymentDate(start time.Time, paymentDay int) time.Time {
	first := utils.SetDayOfMonth(start, paymentDay)
	if first.Before(start) {
		return dueDate(first, paymentDay, 1)
	}
	return first
}

// LoanMonths counts the monthly periods between start and end using day 1
// as the payment day. It returns 0 when end is not after start.
func LoanMonths(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	first := FirstPaymentDate(start, domain.DefaultPaymentDay)
	return paymentCount(first, domain.DefaultPaymentDay, end)
}

// dueDate is paymentDay of the month i months after first's month, clamped
// to that month's last day. Each month is clamped on its own, so a day 31
// schedule starting in February still lands on the 31st in March.
func dueDate(first time.Time, paymentDay, i int) time.Time {
	month := utils.AddMonths(utils.SetDayOfMonth(first, 1), i)
	return utils.SetDayOfMonth(month, paymentDay)
}

// paymentCount is the smallest n >= 1 with the n-th step on or after end
func paymentCount(first time.Time, paymentDay int, end time.Time) int {
	count := 1
	for dueDate(first, paymentDay, count).Before(end) {
		count++
	}
	return count
}

func buildSchedule(first time.Time, paymentDay, count int, total decimal.Decimal) []domain.LoanPayment {
	monthly := total.Div(decimal.NewFromInt(int64(count)))

	payments := make([]domain.LoanPayment, 0, count)
	allocated := decimal.Zero

	for i := 0; i < count; i++ {
		amount := utils.RoundToUnit(monthly)
		if i == count-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)

		payments = append(payments, domain.LoanPayment{
			ID:      uuid.NewString(),
			Amount:  amount,
			DueDate: dueDate(first, paymentDay, i),
			Status:  domain.PaymentStatusPending,
		})
	}

	return payments
}
