package handler

import (
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/pkg/response"
)

// newValidator lets numeric tags such as gt=0 apply to decimal fields
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func NewRouter(loans *LoanHandler, friendLoans *FriendLoanHandler, cards *CardHandler, health *HealthHandler, logger *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", health.Ready).Methods(http.MethodGet)

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans/quote", loans.Quote).Methods(http.MethodPost)
	api.HandleFunc("/loans", loans.CreateLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans", loans.ListLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}", loans.GetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}", loans.DeleteLoan).Methods(http.MethodDelete)
	api.HandleFunc("/loans/{loanId}/schedule", loans.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}/summary", loans.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}/payments/{paymentId}/pay", loans.MarkPaymentPaid).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/wage-fee/pay", loans.PayWageFee).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/periodic", loans.SetupPeriodicPayments).Methods(http.MethodPut)
	api.HandleFunc("/loans/{loanId}/transactions", loans.ListTransactions).Methods(http.MethodGet)

	api.HandleFunc("/friend-loans/overview", friendLoans.GetOverview).Methods(http.MethodGet)
	api.HandleFunc("/friend-loans", friendLoans.CreateFriendLoan).Methods(http.MethodPost)
	api.HandleFunc("/friend-loans", friendLoans.ListFriendLoans).Methods(http.MethodGet)
	api.HandleFunc("/friend-loans/{friendLoanId}", friendLoans.GetFriendLoan).Methods(http.MethodGet)
	api.HandleFunc("/friend-loans/{friendLoanId}", friendLoans.DeleteFriendLoan).Methods(http.MethodDelete)
	api.HandleFunc("/friend-loans/{friendLoanId}/payments/{paymentId}/pay", friendLoans.MarkPaybackPaid).Methods(http.MethodPost)
	api.HandleFunc("/friend-loans/{friendLoanId}/transactions", friendLoans.ListTransactions).Methods(http.MethodGet)

	api.HandleFunc("/cards", cards.CreateCard).Methods(http.MethodPost)
	api.HandleFunc("/cards", cards.ListCards).Methods(http.MethodGet)

	return router
}
