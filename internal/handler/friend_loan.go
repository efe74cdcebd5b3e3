package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/pkg/response"
)

type FriendLoanService interface {
	CreateFriendLoan(ctx context.Context, request *domain.CreateFriendLoanRequest) (*domain.FriendLoan, error)
	GetFriendLoan(ctx context.Context, friendLoanID string) (*domain.FriendLoan, error)
	ListFriendLoans(ctx context.Context, status domain.FriendLoanStatus) ([]*domain.FriendLoan, error)
	DeleteFriendLoan(ctx context.Context, friendLoanID string) error
	MarkPaybackPaid(ctx context.Context, friendLoanID, paymentID string, request *domain.MarkPaybackPaidRequest) (*domain.FriendLoan, error)
	GetOverview(ctx context.Context) (*domain.FriendLoanOverview, error)
	ListTransactions(ctx context.Context, friendLoanID string) ([]*domain.Transaction, error)
}

type FriendLoanHandler struct {
	service   FriendLoanService
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewFriendLoanHandler(service FriendLoanService, logger *logrus.Logger) *FriendLoanHandler {
	return &FriendLoanHandler{
		service:   service,
		validator: newValidator(),
		logger:    logger,
	}
}

func (h *FriendLoanHandler) CreateFriendLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFriendLoanRequest
	if !decodeAndValidate(w, r, h.validator, h.logger, &req) {
		return
	}

	loan, err := h.service.CreateFriendLoan(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, loan)
}

func (h *FriendLoanHandler) ListFriendLoans(w http.ResponseWriter, r *http.Request) {
	status := domain.FriendLoanStatus(r.URL.Query().Get("status"))

	loans, err := h.service.ListFriendLoans(r.Context(), status)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loans)
}

func (h *FriendLoanHandler) GetFriendLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.GetFriendLoan(r.Context(), mux.Vars(r)["friendLoanId"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *FriendLoanHandler) DeleteFriendLoan(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteFriendLoan(r.Context(), mux.Vars(r)["friendLoanId"]); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *FriendLoanHandler) MarkPaybackPaid(w http.ResponseWriter, r *http.Request) {
	var req domain.MarkPaybackPaidRequest
	if !decodeAndValidate(w, r, h.validator, h.logger, &req) {
		return
	}

	vars := mux.Vars(r)
	loan, err := h.service.MarkPaybackPaid(r.Context(), vars["friendLoanId"], vars["paymentId"], &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *FriendLoanHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.GetOverview(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, overview)
}

func (h *FriendLoanHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.service.ListTransactions(r.Context(), mux.Vars(r)["friendLoanId"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, transactions)
}
