package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func sumAmounts(payments []domain.LoanPayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

func TestCalculateLoanSchedule(t *testing.T) {
	tests := []struct {
		name             string
		terms            ScheduleTerms
		expectedCount    int
		expectedFirstDue time.Time
		expectedLastDue  time.Time
		validate         func(*testing.T, []domain.LoanPayment)
	}{
		{
			name: "six month loan on the first",
			terms: ScheduleTerms{
				TotalPayback: decimal.NewFromInt(1060000),
				StartDate:    date(2024, 1, 1),
				EndDate:      date(2024, 7, 1),
				PaymentDay:   1,
			},
			expectedCount:    6,
			expectedFirstDue: date(2024, 1, 1),
			expectedLastDue:  date(2024, 6, 1),
			validate: func(t *testing.T, payments []domain.LoanPayment) {
				for _, p := range payments[:5] {
					assert.True(t, p.Amount.Equal(decimal.NewFromInt(176667)), "got %s", p.Amount)
				}
				assert.True(t, payments[5].Amount.Equal(decimal.NewFromInt(176665)), "got %s", payments[5].Amount)
			},
		},
		{
			name: "payment day already passed moves to next month",
			terms: ScheduleTerms{
				TotalPayback: decimal.NewFromInt(1200),
				StartDate:    date(2024, 1, 20),
				EndDate:      date(2024, 4, 20),
				PaymentDay:   10,
			},
			expectedCount:    3,
			expectedFirstDue: date(2024, 2, 10),
			expectedLastDue:  date(2024, 4, 10),
			validate: func(t *testing.T, payments []domain.LoanPayment) {
				for _, p := range payments {
					assert.True(t, p.Amount.Equal(decimal.NewFromInt(400)))
				}
			},
		},
		{
			name: "payment day later in start month",
			terms: ScheduleTerms{
				TotalPayback: decimal.NewFromInt(1000),
				StartDate:    date(2024, 1, 5),
				EndDate:      date(2024, 3, 5),
				PaymentDay:   15,
			},
			expectedCount:    2,
			expectedFirstDue: date(2024, 1, 15),
			expectedLastDue:  date(2024, 2, 15),
		},
		{
			name: "end date between steps counts the passing step",
			terms: ScheduleTerms{
				TotalPayback: decimal.NewFromInt(700),
				StartDate:    date(2024, 1, 1),
				EndDate:      date(2024, 7, 15),
				PaymentDay:   1,
			},
			expectedCount:    7,
			expectedFirstDue: date(2024, 1, 1),
			expectedLastDue:  date(2024, 7, 1),
		},
		{
			name: "day 31 clamps in short months without drifting",
			terms: ScheduleTerms{
				TotalPayback: decimal.NewFromInt(400),
				StartDate:    date(2024, 1, 1),
				EndDate:      date(2024, 5, 1),
				PaymentDay:   31,
			},
			expectedCount:    4,
			expectedFirstDue: date(2024, 1, 31),
			expectedLastDue:  date(2024, 4, 30),
			validate: func(t *testing.T, payments []domain.LoanPayment) {
				assert.Equal(t, date(2024, 2, 29), payments[1].DueDate)
				assert.Equal(t, date(2024, 3, 31), payments[2].DueDate)
			},
		},
		{
			name: "day 31 from a february start returns to the 31st",
			terms: ScheduleTerms{
				TotalPayback: decimal.NewFromInt(400),
				StartDate:    date(2024, 2, 10),
				EndDate:      date(2024, 6, 10),
				PaymentDay:   31,
			},
			expectedCount:    4,
			expectedFirstDue: date(2024, 2, 29),
			expectedLastDue:  date(2024, 5, 31),
			validate: func(t *testing.T, payments []domain.LoanPayment) {
				assert.Equal(t, date(2024, 3, 31), payments[1].DueDate)
				assert.Equal(t, date(2024, 4, 30), payments[2].DueDate)
			},
		},
		{
			name: "day 31 from a thirty day month returns to the 31st",
			terms: ScheduleTerms{
				TotalPayback: decimal.NewFromInt(300),
				StartDate:    date(2024, 4, 10),
				EndDate:      date(2024, 7, 10),
				PaymentDay:   31,
			},
			expectedCount:    3,
			expectedFirstDue: date(2024, 4, 30),
			expectedLastDue:  date(2024, 6, 30),
			validate: func(t *testing.T, payments []domain.LoanPayment) {
				assert.Equal(t, date(2024, 5, 31), payments[1].DueDate)
			},
		},
		{
			name: "missing payment day defaults to the first",
			terms: ScheduleTerms{
				TotalPayback: decimal.NewFromInt(300),
				StartDate:    date(2024, 1, 10),
				EndDate:      date(2024, 4, 10),
			},
			expectedCount:    3,
			expectedFirstDue: date(2024, 2, 1),
			expectedLastDue:  date(2024, 4, 1),
		},
		{
			name: "short window still yields one payment",
			terms: ScheduleTerms{
				TotalPayback: decimal.NewFromInt(500),
				StartDate:    date(2024, 1, 20),
				EndDate:      date(2024, 1, 25),
				PaymentDay:   1,
			},
			expectedCount:    1,
			expectedFirstDue: date(2024, 2, 1),
			expectedLastDue:  date(2024, 2, 1),
			validate: func(t *testing.T, payments []domain.LoanPayment) {
				assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(500)))
			},
		},
		{
			name: "fractional total is absorbed by the last payment",
			terms: ScheduleTerms{
				TotalPayback: decimal.RequireFromString("1000.55"),
				StartDate:    date(2024, 1, 1),
				EndDate:      date(2024, 4, 1),
				PaymentDay:   1,
			},
			expectedCount:    3,
			expectedFirstDue: date(2024, 1, 1),
			expectedLastDue:  date(2024, 3, 1),
			validate: func(t *testing.T, payments []domain.LoanPayment) {
				assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(334)))
				assert.True(t, payments[2].Amount.Equal(decimal.RequireFromString("332.55")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments, err := CalculateLoanSchedule(tt.terms)
			require.NoError(t, err)
			require.Len(t, payments, tt.expectedCount)

			assert.Equal(t, tt.expectedFirstDue, payments[0].DueDate)
			assert.Equal(t, tt.expectedLastDue, payments[len(payments)-1].DueDate)
			assert.True(t, sumAmounts(payments).Equal(tt.terms.TotalPayback),
				"schedule sums to %s, expected %s", sumAmounts(payments), tt.terms.TotalPayback)

			ids := make(map[string]struct{}, len(payments))
			for i, p := range payments {
				assert.Equal(t, domain.PaymentStatusPending, p.Status)
				assert.Nil(t, p.PaidDate)
				assert.NotEmpty(t, p.ID)
				ids[p.ID] = struct{}{}
				if i > 0 {
					assert.False(t, p.DueDate.Before(payments[i-1].DueDate), "due dates must not decrease")
				}
			}
			assert.Len(t, ids, len(payments))

			if tt.validate != nil {
				tt.validate(t, payments)
			}
		})
	}
}

func TestCalculateLoanSchedule_InvalidTerms(t *testing.T) {
	tests := []struct {
		name     string
		terms    ScheduleTerms
		expected error
	}{
		{
			name:     "end before start",
			terms:    ScheduleTerms{TotalPayback: decimal.NewFromInt(100), StartDate: date(2024, 6, 1), EndDate: date(2024, 1, 1)},
			expected: customError.ErrInvalidLoanPeriod,
		},
		{
			name:     "end equals start",
			terms:    ScheduleTerms{TotalPayback: decimal.NewFromInt(100), StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 1)},
			expected: customError.ErrInvalidLoanPeriod,
		},
		{
			name:     "payment day out of range",
			terms:    ScheduleTerms{TotalPayback: decimal.NewFromInt(100), StartDate: date(2024, 1, 1), EndDate: date(2024, 6, 1), PaymentDay: 32},
			expected: customError.ErrInvalidPaymentDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments, err := CalculateLoanSchedule(tt.terms)
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, payments)
		})
	}
}

func TestPeriodicPayments(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		day      int
		months   int
		expected []time.Time
	}{
		{
			name:     "day 31 from a january start",
			start:    date(2024, 1, 20),
			day:      31,
			months:   3,
			expected: []time.Time{date(2024, 1, 31), date(2024, 2, 29), date(2024, 3, 31)},
		},
		{
			name:     "day 31 from a february start",
			start:    date(2024, 2, 5),
			day:      31,
			months:   3,
			expected: []time.Time{date(2024, 2, 29), date(2024, 3, 31), date(2024, 4, 30)},
		},
		{
			name:     "day 31 from a thirty day month",
			start:    date(2024, 6, 5),
			day:      31,
			months:   3,
			expected: []time.Time{date(2024, 6, 30), date(2024, 7, 31), date(2024, 8, 31)},
		},
		{
			name:     "day 30 crosses february",
			start:    date(2024, 1, 2),
			day:      30,
			months:   3,
			expected: []time.Time{date(2024, 1, 30), date(2024, 2, 29), date(2024, 3, 30)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := &domain.Loan{
				TotalPayback: decimal.NewFromInt(1000),
				StartDate:    tt.start,
				EndDate:      tt.start.AddDate(1, 0, 0),
			}

			payments, err := PeriodicPayments(loan, tt.day, tt.months)
			require.NoError(t, err)
			require.Len(t, payments, len(tt.expected))

			for i, due := range tt.expected {
				assert.Equal(t, due, payments[i].DueDate, "payment %d", i)
			}
			assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(333)))
			assert.True(t, payments[2].Amount.Equal(decimal.NewFromInt(334)))
			assert.True(t, sumAmounts(payments).Equal(loan.TotalPayback))
		})
	}
}

func TestPeriodicPayments_InvalidInput(t *testing.T) {
	loan := &domain.Loan{
		TotalPayback: decimal.NewFromInt(1000),
		StartDate:    date(2024, 1, 20),
		EndDate:      date(2024, 12, 20),
	}

	_, err := PeriodicPayments(loan, 1, 0)
	assert.ErrorIs(t, err, customError.ErrInvalidPaymentCount)

	_, err = PeriodicPayments(loan, 0, 6)
	assert.ErrorIs(t, err, customError.ErrInvalidPaymentDay)
}

func TestLoanMonths(t *testing.T) {
	assert.Equal(t, 6, LoanMonths(date(2024, 1, 1), date(2024, 7, 1)))
	assert.Equal(t, 12, LoanMonths(date(2024, 1, 1), date(2025, 1, 1)))
	assert.Equal(t, 6, LoanMonths(date(2024, 1, 15), date(2024, 7, 15)))
	assert.Equal(t, 0, LoanMonths(date(2024, 7, 1), date(2024, 1, 1)))
	assert.Equal(t, 0, LoanMonths(date(2024, 1, 1), date(2024, 1, 1)))
}

func TestFirstPaymentDate(t *testing.T) {
	assert.Equal(t, date(2024, 3, 1), FirstPaymentDate(date(2024, 3, 1), 1))
	assert.Equal(t, date(2024, 4, 1), FirstPaymentDate(date(2024, 3, 2), 1))
	assert.Equal(t, date(2024, 2, 29), FirstPaymentDate(date(2024, 2, 10), 31))
	assert.Equal(t, date(2024, 2, 29), FirstPaymentDate(date(2024, 1, 31), 30))
	assert.Equal(t, date(2024, 4, 30), FirstPaymentDate(date(2024, 3, 31), 30))
}

func TestTermsOf(t *testing.T) {
	day := 15
	loan := &domain.Loan{
		TotalPayback: decimal.NewFromInt(900),
		StartDate:    date(2024, 1, 1),
		EndDate:      date(2024, 4, 1),
		PaymentDay:   &day,
	}

	terms := TermsOf(loan)
	assert.Equal(t, 15, terms.PaymentDay)
	assert.True(t, terms.TotalPayback.Equal(loan.TotalPayback))

	loan.PaymentDay = nil
	assert.Equal(t, domain.DefaultPaymentDay, TermsOf(loan).PaymentDay)
}
