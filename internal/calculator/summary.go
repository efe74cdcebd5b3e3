package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/pkg/utils"
)

// DefaultUpcomingDays is the look-ahead window of LoanSummary
const DefaultUpcomingDays = 30

// RemainingBalance is the total payback minus every paid installment.
// It goes negative when more was recorded paid than scheduled.
func RemainingBalance(loan *domain.Loan) decimal.Decimal {
	paid := decimal.Zero
	for _, payment := range loan.Payments {
		if payment.IsPaid() {
			paid = paid.Add(payment.Amount)
		}
	}
	return loan.TotalPayback.Sub(paid)
}

// NextPayment returns the pending payment with the earliest due date, or nil
func NextPayment(loan *domain.Loan) *domain.LoanPayment {
	pending := filterPayments(loan, func(p domain.LoanPayment) bool {
		return p.IsPending()
	})
	if len(pending) == 0 {
		return nil
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].DueDate.Before(pending[j].DueDate)
	})

	next := pending[0]
	return &next
}

// OverduePayments returns pending payments due strictly before now
func OverduePayments(loan *domain.Loan, now time.Time) []domain.LoanPayment {
	return filterPayments(loan, func(p domain.LoanPayment) bool {
		return p.IsPending() && utils.IsDateOverdue(p.DueDate, now)
	})
}

// UpcomingPayments returns pending payments due strictly between now and now+daysAhead
func UpcomingPayments(loan *domain.Loan, now time.Time, daysAhead int) []domain.LoanPayment {
	horizon := now.AddDate(0, 0, daysAhead)
	return filterPayments(loan, func(p domain.LoanPayment) bool {
		return p.IsPending() && p.DueDate.After(now) && p.DueDate.Before(horizon)
	})
}

// MarkPaymentAsPaid returns a copy of loan with the payment marked paid.
// A zero paidDate means now. An unknown paymentID returns an unchanged copy.
func MarkPaymentAsPaid(loan *domain.Loan, paymentID string, paidDate, now time.Time) domain.Loan {
	if paidDate.IsZero() {
		paidDate = now
	}

	updated := loan.Clone()
	for i := range updated.Payments {
		if updated.Payments[i].ID != paymentID {
			continue
		}
		paidAt := paidDate
		updated.Payments[i].Status = domain.PaymentStatusPaid
		updated.Payments[i].PaidDate = &paidAt
	}

	return updated
}

// LoanStatusAt derives the status: completed wins over defaulted, which wins over active
func LoanStatusAt(loan *domain.Loan, now time.Time) domain.LoanStatus {
	switch {
	case !RemainingBalance(loan).IsPositive():
		return domain.LoanStatusCompleted
	case len(OverduePayments(loan, now)) > 0:
		return domain.LoanStatusDefaulted
	default:
		return domain.LoanStatusActive
	}
}

// UpdateLoanStatus returns a copy of loan with its status recomputed
func UpdateLoanStatus(loan *domain.Loan, now time.Time) domain.Loan {
	updated := loan.Clone()
	updated.Status = LoanStatusAt(loan, now)
	return updated
}

// LoanSummary bundles the derived state of a loan. A non-positive
// upcomingDays uses DefaultUpcomingDays. Progress is not clamped and
// exceeds 100 on overpaid loans.
func LoanSummary(loan *domain.Loan, now time.Time, upcomingDays int) domain.LoanSummary {
	if upcomingDays <= 0 {
		upcomingDays = DefaultUpcomingDays
	}

	remaining := RemainingBalance(loan)
	totalPaid := loan.TotalPayback.Sub(remaining)

	progress := decimal.Zero
	if !loan.TotalPayback.IsZero() {
		progress = totalPaid.Div(loan.TotalPayback).Mul(hundred)
	}

	return domain.LoanSummary{
		LoanID:             loan.ID,
		RemainingBalance:   remaining,
		NextPayment:        NextPayment(loan),
		OverduePayments:    OverduePayments(loan, now),
		UpcomingPayments:   UpcomingPayments(loan, now, upcomingDays),
		TotalPaid:          totalPaid,
		ProgressPercentage: progress,
		Status:             LoanStatusAt(loan, now),
	}
}

// SummaryChangesAt returns the earliest instant at or after now at which the
// time-dependent parts of LoanSummary can change: a pending payment falling
// due, or one entering the upcoming window. It is zero when nothing pending
// is left to change.
func SummaryChangesAt(loan *domain.Loan, now time.Time, upcomingDays int) time.Time {
	if upcomingDays <= 0 {
		upcomingDays = DefaultUpcomingDays
	}

	var earliest time.Time
	consider := func(t time.Time) {
		if t.Before(now) {
			return
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}

	for _, payment := range loan.Payments {
		if !payment.IsPending() {
			continue
		}
		consider(payment.DueDate)
		consider(payment.DueDate.AddDate(0, 0, -upcomingDays))
	}
	return earliest
}

// SortByDueDate returns the payments ordered by due date, keeping the order of ties
func SortByDueDate(payments []domain.LoanPayment) []domain.LoanPayment {
	sorted := make([]domain.LoanPayment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})
	return sorted
}

func filterPayments(loan *domain.Loan, keep func(domain.LoanPayment) bool) []domain.LoanPayment {
	matched := make([]domain.LoanPayment, 0)
	for _, payment := range loan.Payments {
		if keep(payment) {
			matched = append(matched, payment)
		}
	}
	return matched
}
