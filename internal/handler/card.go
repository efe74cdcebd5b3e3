package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/pkg/response"
)

type CardService interface {
	CreateCard(ctx context.Context, request *domain.CreateCardRequest) (*domain.Card, error)
	ListCards(ctx context.Context) ([]*domain.Card, error)
}

type CardHandler struct {
	service   CardService
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewCardHandler(service CardService, logger *logrus.Logger) *CardHandler {
	return &CardHandler{
		service:   service,
		validator: newValidator(),
		logger:    logger,
	}
}

func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCardRequest
	if !decodeAndValidate(w, r, h.validator, h.logger, &req) {
		return
	}

	card, err := h.service.CreateCard(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, card)
}

func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.ListCards(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, cards)
}
