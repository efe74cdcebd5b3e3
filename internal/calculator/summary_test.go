package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-tracker/internal/domain"
)

func newTestLoan(t *testing.T) *domain.Loan {
	t.Helper()

	loan := &domain.Loan{
		ID:              "loan-1",
		PrincipalAmount: d("1000000"),
		TotalPayback:    d("1060000"),
		StartDate:       date(2024, 1, 1),
		EndDate:         date(2024, 7, 1),
		InterestRate:    d("12"),
		Status:          domain.LoanStatusActive,
	}

	payments, err := CalculateLoanSchedule(TermsOf(loan))
	require.NoError(t, err)
	loan.Payments = payments

	return loan
}

func TestRemainingBalance(t *testing.T) {
	loan := newTestLoan(t)
	assert.True(t, RemainingBalance(loan).Equal(d("1060000")))

	paid := MarkPaymentAsPaid(loan, loan.Payments[0].ID, date(2024, 1, 2), date(2024, 1, 2))
	assert.True(t, RemainingBalance(&paid).Equal(d("1060000").Sub(loan.Payments[0].Amount)))

	// Marking the same id again does not change the balance
	again := MarkPaymentAsPaid(&paid, loan.Payments[0].ID, date(2024, 1, 3), date(2024, 1, 3))
	assert.True(t, RemainingBalance(&again).Equal(RemainingBalance(&paid)))
}

func TestRemainingBalance_Overpaid(t *testing.T) {
	loan := &domain.Loan{
		TotalPayback: d("100"),
		Payments: []domain.LoanPayment{
			{ID: "a", Amount: d("80"), Status: domain.PaymentStatusPaid},
			{ID: "b", Amount: d("40"), Status: domain.PaymentStatusPaid},
			{ID: "c", Amount: d("10"), Status: domain.PaymentStatusOverdue},
		},
	}

	assert.True(t, RemainingBalance(loan).Equal(d("-20")))
	summary := LoanSummary(loan, date(2024, 1, 1), 0)
	assert.True(t, summary.ProgressPercentage.Equal(d("120")))
	assert.Equal(t, domain.LoanStatusCompleted, summary.Status)
}

func TestMarkPaymentAsPaid(t *testing.T) {
	loan := newTestLoan(t)
	target := loan.Payments[2]
	paidAt := date(2024, 3, 2)

	updated := MarkPaymentAsPaid(loan, target.ID, paidAt, date(2024, 3, 5))

	require.NotNil(t, updated.Payments[2].PaidDate)
	assert.Equal(t, domain.PaymentStatusPaid, updated.Payments[2].Status)
	assert.Equal(t, paidAt, *updated.Payments[2].PaidDate)

	// The input is untouched
	assert.Equal(t, domain.PaymentStatusPending, loan.Payments[2].Status)
	assert.Nil(t, loan.Payments[2].PaidDate)

	for i, p := range updated.Payments {
		if i != 2 {
			assert.Equal(t, loan.Payments[i], p)
		}
	}
}

func TestMarkPaymentAsPaid_DefaultsToNow(t *testing.T) {
	loan := newTestLoan(t)
	now := date(2024, 2, 14)

	updated := MarkPaymentAsPaid(loan, loan.Payments[0].ID, time.Time{}, now)
	require.NotNil(t, updated.Payments[0].PaidDate)
	assert.Equal(t, now, *updated.Payments[0].PaidDate)
}

func TestMarkPaymentAsPaid_UnknownID(t *testing.T) {
	loan := newTestLoan(t)

	updated := MarkPaymentAsPaid(loan, "missing", date(2024, 3, 1), date(2024, 3, 1))
	assert.Equal(t, *loan, updated)
}

func TestNextPayment(t *testing.T) {
	loan := &domain.Loan{
		TotalPayback: d("300"),
		Payments: []domain.LoanPayment{
			{ID: "c", Amount: d("100"), DueDate: date(2024, 3, 1), Status: domain.PaymentStatusPending},
			{ID: "a", Amount: d("100"), DueDate: date(2024, 1, 1), Status: domain.PaymentStatusPaid},
			{ID: "b1", Amount: d("50"), DueDate: date(2024, 2, 1), Status: domain.PaymentStatusPending},
			{ID: "b2", Amount: d("50"), DueDate: date(2024, 2, 1), Status: domain.PaymentStatusPending},
		},
	}

	next := NextPayment(loan)
	require.NotNil(t, next)
	assert.Equal(t, "b1", next.ID)

	for i := range loan.Payments {
		loan.Payments[i].Status = domain.PaymentStatusPaid
	}
	assert.Nil(t, NextPayment(loan))
}

func TestOverdueAndUpcomingPayments(t *testing.T) {
	loan := newTestLoan(t)
	now := date(2024, 3, 15)

	overdue := OverduePayments(loan, now)
	require.Len(t, overdue, 3)
	assert.Equal(t, date(2024, 3, 1), overdue[2].DueDate)

	upcoming := UpcomingPayments(loan, now, 30)
	require.Len(t, upcoming, 1)
	assert.Equal(t, date(2024, 4, 1), upcoming[0].DueDate)

	assert.Len(t, UpcomingPayments(loan, now, 90), 3)

	// A payment due exactly now is neither overdue nor upcoming
	assert.Len(t, OverduePayments(loan, date(2024, 1, 1)), 0)
	assert.Len(t, UpcomingPayments(loan, date(2024, 1, 1), 20), 0)

	paid := MarkPaymentAsPaid(loan, loan.Payments[0].ID, now, now)
	assert.Len(t, OverduePayments(&paid, now), 2)
}

func TestUpdateLoanStatus(t *testing.T) {
	loan := newTestLoan(t)

	tests := []struct {
		name     string
		loan     func() domain.Loan
		now      time.Time
		expected domain.LoanStatus
	}{
		{
			name:     "nothing due yet",
			loan:     func() domain.Loan { return *loan },
			now:      date(2023, 12, 1),
			expected: domain.LoanStatusActive,
		},
		{
			name:     "missed payment defaults",
			loan:     func() domain.Loan { return *loan },
			now:      date(2024, 2, 15),
			expected: domain.LoanStatusDefaulted,
		},
		{
			name: "fully paid completes even when late",
			loan: func() domain.Loan {
				paid := *loan
				for _, p := range loan.Payments {
					paid = MarkPaymentAsPaid(&paid, p.ID, date(2024, 8, 1), date(2024, 8, 1))
				}
				return paid
			},
			now:      date(2024, 9, 1),
			expected: domain.LoanStatusCompleted,
		},
		{
			name: "paid up to date stays active",
			loan: func() domain.Loan {
				paid := MarkPaymentAsPaid(loan, loan.Payments[0].ID, date(2024, 1, 1), date(2024, 1, 1))
				return MarkPaymentAsPaid(&paid, loan.Payments[1].ID, date(2024, 2, 1), date(2024, 2, 1))
			},
			now:      date(2024, 2, 20),
			expected: domain.LoanStatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.loan()
			updated := UpdateLoanStatus(&input, tt.now)
			assert.Equal(t, tt.expected, updated.Status)
			assert.Equal(t, domain.LoanStatusActive, loan.Status)
		})
	}
}

func TestLoanSummary(t *testing.T) {
	loan := newTestLoan(t)
	paid := MarkPaymentAsPaid(loan, loan.Payments[0].ID, date(2024, 1, 1), date(2024, 1, 1))
	now := date(2024, 2, 10)

	summary := LoanSummary(&paid, now, 0)

	assert.Equal(t, "loan-1", summary.LoanID)
	assert.True(t, summary.RemainingBalance.Equal(d("883333")), "got %s", summary.RemainingBalance)
	assert.True(t, summary.TotalPaid.Equal(d("176667")))
	require.NotNil(t, summary.NextPayment)
	assert.Equal(t, date(2024, 2, 1), summary.NextPayment.DueDate)
	assert.Len(t, summary.OverduePayments, 1)
	require.Len(t, summary.UpcomingPayments, 1)
	assert.Equal(t, date(2024, 3, 1), summary.UpcomingPayments[0].DueDate)
	assert.Equal(t, domain.LoanStatusDefaulted, summary.Status)

	expectedProgress := d("176667").Div(d("1060000")).Mul(d("100"))
	assert.True(t, summary.ProgressPercentage.Equal(expectedProgress))
}

func TestLoanSummary_ZeroPayback(t *testing.T) {
	loan := &domain.Loan{TotalPayback: decimal.Zero}

	summary := LoanSummary(loan, date(2024, 1, 1), 30)
	assert.True(t, summary.ProgressPercentage.IsZero())
	assert.Nil(t, summary.NextPayment)
	assert.Empty(t, summary.OverduePayments)
}

func TestSummaryChangesAt(t *testing.T) {
	loan := newTestLoan(t)

	allPaid := loan.Clone()
	for i := range allPaid.Payments {
		allPaid.Payments[i].Status = domain.PaymentStatusPaid
	}

	tests := []struct {
		name     string
		loan     *domain.Loan
		now      time.Time
		days     int
		expected time.Time
	}{
		{
			name:     "next payment entering the window",
			loan:     loan,
			now:      date(2024, 1, 15),
			days:     30,
			expected: date(2024, 1, 31),
		},
		{
			name:     "next payment falling due",
			loan:     loan,
			now:      date(2024, 1, 25),
			days:     10,
			expected: date(2024, 2, 1),
		},
		{
			name:     "payment due right now",
			loan:     loan,
			now:      date(2024, 1, 1),
			days:     30,
			expected: date(2024, 1, 1),
		},
		{
			name:     "non-positive window uses the default",
			loan:     loan,
			now:      date(2024, 1, 15),
			days:     0,
			expected: date(2024, 1, 31),
		},
		{
			name: "nothing pending",
			loan: &allPaid,
			now:  date(2024, 1, 15),
			days: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SummaryChangesAt(tt.loan, tt.now, tt.days))
		})
	}
}

func TestSummaryChangesAt_MatchesLoanSummary(t *testing.T) {
	loan := newTestLoan(t)
	now := date(2024, 1, 15)

	changesAt := SummaryChangesAt(loan, now, 30)
	before := LoanSummary(loan, changesAt, 30)
	assert.Equal(t, LoanSummary(loan, now, 30), before)

	after := LoanSummary(loan, changesAt.Add(time.Millisecond), 30)
	assert.NotEqual(t, before.UpcomingPayments, after.UpcomingPayments)
}

func TestSortByDueDate(t *testing.T) {
	payments := []domain.LoanPayment{
		{ID: "b", DueDate: date(2024, 2, 1)},
		{ID: "a", DueDate: date(2024, 1, 1)},
		{ID: "b2", DueDate: date(2024, 2, 1)},
	}

	sorted := SortByDueDate(payments)
	assert.Equal(t, []string{"a", "b", "b2"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, "b", payments[0].ID)
}
