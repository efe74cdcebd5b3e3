package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
	"github.com/segyhp/loan-tracker/pkg/response"
)

// LoanService is the set of loan use cases the HTTP layer needs
type LoanService interface {
	Quote(ctx context.Context, request *domain.QuoteRequest) (*domain.QuoteResponse, error)
	CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, []domain.LoanPayment, error)
	GetLoan(ctx context.Context, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error)
	DeleteLoan(ctx context.Context, loanID string) error
	GetSchedule(ctx context.Context, loanID string) ([]domain.LoanPayment, error)
	GetSummary(ctx context.Context, loanID string) (*domain.LoanSummary, error)
	MarkPaymentPaid(ctx context.Context, loanID, paymentID string, request *domain.MarkPaymentPaidRequest) (*domain.Loan, error)
	PayWageFee(ctx context.Context, loanID string, request *domain.PayWageFeeRequest) (*domain.Loan, error)
	SetupPeriodicPayments(ctx context.Context, loanID string, request *domain.PeriodicPaymentsRequest) (*domain.Loan, error)
	ListTransactions(ctx context.Context, loanID string) ([]*domain.Transaction, error)
}

type LoanHandler struct {
	service   LoanService
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewLoanHandler(service LoanService, logger *logrus.Logger) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: newValidator(),
		logger:    logger,
	}
}

func (h *LoanHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req domain.QuoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, quote)
}

func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, schedule, err := h.service.CreateLoan(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, domain.CreateLoanResponse{Loan: loan, Schedule: schedule})
}

func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	status := domain.LoanStatus(r.URL.Query().Get("status"))

	loans, err := h.service.ListLoans(r.Context(), status)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loans)
}

func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.GetLoan(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteLoan(r.Context(), mux.Vars(r)["loanId"]); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.service.GetSchedule(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, schedule)
}

func (h *LoanHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, summary)
}

func (h *LoanHandler) MarkPaymentPaid(w http.ResponseWriter, r *http.Request) {
	var req domain.MarkPaymentPaidRequest
	if !h.decode(w, r, &req) {
		return
	}

	vars := mux.Vars(r)
	loan, err := h.service.MarkPaymentPaid(r.Context(), vars["loanId"], vars["paymentId"], &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) PayWageFee(w http.ResponseWriter, r *http.Request) {
	var req domain.PayWageFeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.service.PayWageFee(r.Context(), mux.Vars(r)["loanId"], &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) SetupPeriodicPayments(w http.ResponseWriter, r *http.Request) {
	var req domain.PeriodicPaymentsRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.service.SetupPeriodicPayments(r.Context(), mux.Vars(r)["loanId"], &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.service.ListTransactions(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, transactions)
}

// decode reads and validates the JSON body, writing the error response itself
func (h *LoanHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	return decodeAndValidate(w, r, h.validator, h.logger, dst)
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, logger *logrus.Logger, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WithError(err).WithField("path", r.URL.Path).Debug("Malformed request body")
		response.BadRequest(w, "Invalid request body", customError.WrapValidation(err))
		return false
	}

	if err := v.Struct(dst); err != nil {
		response.FromError(w, customError.WrapValidation(err))
		return false
	}

	return true
}
