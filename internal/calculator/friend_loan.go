package calculator

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-tracker/internal/domain"
)

// settleTolerance is how far the paid sum may be from the lent amount for a
// fully paid friend loan to count as settled
var settleTolerance = decimal.RequireFromString("0.01")

// DefaultPayback is the single payback of the whole amount due
// DefaultPaybackDays after the lend date
func DefaultPayback(amount decimal.Decimal, lendDate time.Time) []domain.FriendLoanPayment {
	return []domain.FriendLoanPayment{{
		ID:      uuid.NewString(),
		Amount:  amount,
		DueDate: lendDate.AddDate(0, 0, domain.DefaultPaybackDays),
		Status:  domain.PaymentStatusPending,
	}}
}

// FriendLoanPaidAmount sums the paid paybacks
func FriendLoanPaidAmount(loan *domain.FriendLoan) decimal.Decimal {
	paid := decimal.Zero
	for _, payment := range loan.Payments {
		if payment.IsPaid() {
			paid = paid.Add(payment.Amount)
		}
	}
	return paid
}

// IsFriendLoanSettled reports whether every payback is paid and together they
// return the lent amount to within one cent
func IsFriendLoanSettled(loan *domain.FriendLoan) bool {
	if len(loan.Payments) == 0 {
		return false
	}
	for _, payment := range loan.Payments {
		if !payment.IsPaid() {
			return false
		}
	}
	return FriendLoanPaidAmount(loan).Sub(loan.Amount).Abs().LessThan(settleTolerance)
}

// MarkPaybackAsPaid returns a copy of loan with the payback paid into cardID
// and the status recomputed. An unknown paymentID returns an unchanged copy.
func MarkPaybackAsPaid(loan *domain.FriendLoan, paymentID, cardID string, paidDate time.Time) domain.FriendLoan {
	updated := loan.Clone()
	for i := range updated.Payments {
		if updated.Payments[i].ID != paymentID {
			continue
		}
		paidAt := paidDate
		card := cardID
		updated.Payments[i].Status = domain.PaymentStatusPaid
		updated.Payments[i].PaidDate = &paidAt
		updated.Payments[i].PaybackCardID = &card
	}

	if IsFriendLoanSettled(&updated) {
		updated.Status = domain.FriendLoanStatusSettled
	}
	return updated
}

// TotalLentAmount sums the amounts of the active friend loans
func TotalLentAmount(loans []*domain.FriendLoan) decimal.Decimal {
	total := decimal.Zero
	for _, loan := range loans {
		if loan.Status == domain.FriendLoanStatusActive {
			total = total.Add(loan.Amount)
		}
	}
	return total
}

// UpcomingPaybacks returns the pending paybacks of active friend loans due
// between now and now+daysAhead, both ends included, earliest first
func UpcomingPaybacks(loans []*domain.FriendLoan, now time.Time, daysAhead int) []domain.UpcomingPayback {
	horizon := now.AddDate(0, 0, daysAhead)

	upcoming := make([]domain.UpcomingPayback, 0)
	for _, loan := range loans {
		if loan.Status != domain.FriendLoanStatusActive {
			continue
		}
		for _, payment := range loan.Payments {
			if !payment.IsPending() || payment.DueDate.Before(now) || payment.DueDate.After(horizon) {
				continue
			}
			upcoming = append(upcoming, domain.UpcomingPayback{
				FriendLoanID: loan.ID,
				FriendName:   loan.FriendName,
				Currency:     loan.Currency,
				Payment:      payment,
			})
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Payment.DueDate.Before(upcoming[j].Payment.DueDate)
	})
	return upcoming
}
