package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/internal/logger"
	"github.com/segyhp/loan-tracker/internal/mocks"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

type apiFixture struct {
	loans       *mocks.MockLoanService
	friendLoans *mocks.MockFriendLoanService
	cards       *mocks.MockCardService
	router      *mux.Router
}

func newAPIFixture(checks map[string]CheckFunc) *apiFixture {
	log := logger.Discard()
	f := &apiFixture{
		loans:       &mocks.MockLoanService{},
		friendLoans: &mocks.MockFriendLoanService{},
		cards:       &mocks.MockCardService{},
	}
	f.router = NewRouter(
		NewLoanHandler(f.loans, log),
		NewFriendLoanHandler(f.friendLoans, log),
		NewCardHandler(f.cards, log),
		NewHealthHandler(checks, time.Second, log),
		log,
	)
	return f
}

func (f *apiFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestCreateLoan(t *testing.T) {
	f := newAPIFixture(nil)

	loan := &domain.Loan{ID: "loan-1", Name: "Car", TotalPayback: decimal.NewFromInt(1060000)}
	schedule := []domain.LoanPayment{{ID: "p1", Amount: decimal.NewFromInt(176667)}}

	f.loans.On("CreateLoan", mock.Anything, mock.MatchedBy(func(req *domain.CreateLoanRequest) bool {
		return req.Name == "Car" && req.PrincipalAmount.Equal(decimal.NewFromInt(1000000)) && req.InterestRate != nil
	})).Return(loan, schedule, nil)

	rec := f.do(http.MethodPost, "/api/v1/loans", map[string]interface{}{
		"name":             "Car",
		"principal_amount": "1000000",
		"interest_rate":    12,
		"start_date":       "2024-01-01T00:00:00Z",
		"end_date":         "2024-07-01T00:00:00Z",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)

	var body domain.CreateLoanResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "loan-1", body.Loan.ID)
	assert.Len(t, body.Schedule, 1)
	f.loans.AssertExpectations(t)
}

func TestCreateLoan_Validation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{name: "malformed json", body: `{"name": `},
		{name: "missing name", body: map[string]interface{}{
			"principal_amount": 100, "start_date": "2024-01-01T00:00:00Z", "end_date": "2024-07-01T00:00:00Z",
		}},
		{name: "zero principal", body: map[string]interface{}{
			"name": "x", "principal_amount": 0, "start_date": "2024-01-01T00:00:00Z", "end_date": "2024-07-01T00:00:00Z",
		}},
		{name: "negative rate", body: map[string]interface{}{
			"name": "x", "principal_amount": 100, "interest_rate": -1,
			"start_date": "2024-01-01T00:00:00Z", "end_date": "2024-07-01T00:00:00Z",
		}},
		{name: "end before start", body: map[string]interface{}{
			"name": "x", "principal_amount": 100, "start_date": "2024-07-01T00:00:00Z", "end_date": "2024-01-01T00:00:00Z",
		}},
		{name: "payment day out of range", body: map[string]interface{}{
			"name": "x", "principal_amount": 100, "payment_day": 32,
			"start_date": "2024-01-01T00:00:00Z", "end_date": "2024-07-01T00:00:00Z",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(nil)

			rec := f.do(http.MethodPost, "/api/v1/loans", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, customError.ErrCodeValidation, decode(t, rec).Code)
			f.loans.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything)
		})
	}
}

func TestQuote(t *testing.T) {
	f := newAPIFixture(nil)
	f.loans.On("Quote", mock.Anything, mock.Anything).Return(&domain.QuoteResponse{
		Months: 6, InterestRate: decimal.NewFromInt(12), TotalPayback: decimal.NewFromInt(1060000),
	}, nil)

	rec := f.do(http.MethodPost, "/api/v1/loans/quote", map[string]interface{}{
		"principal_amount": 1000000,
		"interest_rate":    12,
		"start_date":       "2024-01-01T00:00:00Z",
		"end_date":         "2024-07-01T00:00:00Z",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var quote domain.QuoteResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &quote))
	assert.Equal(t, 6, quote.Months)
}

func TestGetLoan_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: customError.WrapLoanNotFound("x"), status: http.StatusNotFound},
		{name: "database", err: customError.WrapDatabaseError(errors.New("down")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(nil)
			f.loans.On("GetLoan", mock.Anything, "x").Return(nil, tt.err)

			rec := f.do(http.MethodGet, "/api/v1/loans/x", nil)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestListLoans_StatusFilter(t *testing.T) {
	f := newAPIFixture(nil)
	f.loans.On("ListLoans", mock.Anything, domain.LoanStatusActive).Return([]*domain.Loan{{ID: "a"}}, nil)

	rec := f.do(http.MethodGet, "/api/v1/loans?status=active", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var loans []domain.Loan
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &loans))
	require.Len(t, loans, 1)
	assert.Equal(t, "a", loans[0].ID)
}

func TestDeleteLoan(t *testing.T) {
	f := newAPIFixture(nil)
	f.loans.On("DeleteLoan", mock.Anything, "loan-1").Return(nil)

	rec := f.do(http.MethodDelete, "/api/v1/loans/loan-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	f.loans.AssertExpectations(t)
}

func TestMarkPaymentPaid(t *testing.T) {
	t.Run("passes path variables", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.loans.On("MarkPaymentPaid", mock.Anything, "loan-1", "p-2", mock.MatchedBy(func(req *domain.MarkPaymentPaidRequest) bool {
			return req.CardID == "card-1"
		})).Return(&domain.Loan{ID: "loan-1"}, nil)

		rec := f.do(http.MethodPost, "/api/v1/loans/loan-1/payments/p-2/pay", map[string]string{"card_id": "card-1"})
		assert.Equal(t, http.StatusOK, rec.Code)
		f.loans.AssertExpectations(t)
	})

	t.Run("card is required", func(t *testing.T) {
		f := newAPIFixture(nil)
		rec := f.do(http.MethodPost, "/api/v1/loans/loan-1/payments/p-2/pay", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("already paid is a conflict", func(t *testing.T) {
		f := newAPIFixture(nil)
		f.loans.On("MarkPaymentPaid", mock.Anything, "loan-1", "p-2", mock.Anything).
			Return(nil, customError.WrapPaymentAlreadyPaid("p-2"))

		rec := f.do(http.MethodPost, "/api/v1/loans/loan-1/payments/p-2/pay", map[string]string{"card_id": "card-1"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, customError.ErrCodePaymentAlreadyPaid, decode(t, rec).Code)
	})
}

func TestPayWageFee(t *testing.T) {
	f := newAPIFixture(nil)
	f.loans.On("PayWageFee", mock.Anything, "loan-1", mock.Anything).Return(&domain.Loan{ID: "loan-1", WageFeePaid: true}, nil)

	rec := f.do(http.MethodPost, "/api/v1/loans/loan-1/wage-fee/pay", map[string]string{"card_id": "card-1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetupPeriodicPayments(t *testing.T) {
	f := newAPIFixture(nil)
	f.loans.On("SetupPeriodicPayments", mock.Anything, "loan-1", &domain.PeriodicPaymentsRequest{DayOfMonth: 15, NumberOfMonths: 12}).
		Return(&domain.Loan{ID: "loan-1"}, nil)

	rec := f.do(http.MethodPut, "/api/v1/loans/loan-1/periodic", map[string]int{"day_of_month": 15, "number_of_months": 12})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPut, "/api/v1/loans/loan-1/periodic", map[string]int{"day_of_month": 40, "number_of_months": 12})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleSummaryAndTransactions(t *testing.T) {
	f := newAPIFixture(nil)
	f.loans.On("GetSchedule", mock.Anything, "loan-1").Return([]domain.LoanPayment{{ID: "p1"}}, nil)
	f.loans.On("GetSummary", mock.Anything, "loan-1").Return(&domain.LoanSummary{LoanID: "loan-1"}, nil)
	f.loans.On("ListTransactions", mock.Anything, "loan-1").Return([]*domain.Transaction{}, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/loans/loan-1/schedule", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/loans/loan-1/summary", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/loans/loan-1/transactions", nil).Code)
	f.loans.AssertExpectations(t)
}

func TestCards(t *testing.T) {
	f := newAPIFixture(nil)
	f.cards.On("CreateCard", mock.Anything, mock.MatchedBy(func(req *domain.CreateCardRequest) bool {
		return req.Name == "Main"
	})).Return(&domain.Card{ID: "card-1", Name: "Main"}, nil)
	f.cards.On("ListCards", mock.Anything).Return([]*domain.Card{{ID: "card-1"}}, nil)

	assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/v1/cards", map[string]string{"name": "Main"}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/v1/cards", map[string]string{"currency": "TOOLONG"}).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/cards", nil).Code)
}

func TestHealth(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	f := newAPIFixture(map[string]CheckFunc{"database": ok, "redis": ok})
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health/ready", nil).Code)

	f = newAPIFixture(map[string]CheckFunc{"database": ok, "redis": down})
	rec := f.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &status))
	assert.Equal(t, "error", status.Status)
	assert.Equal(t, "ok", status.Checks["database"])
	assert.Contains(t, status.Checks["redis"], "connection refused")
}
