package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-tracker/internal/config"
	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/internal/repository"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

type CardService struct {
	CardRepo repository.CardRepository
	config   *config.Config
	logger   *logrus.Logger
	now      func() time.Time
}

func NewCardService(cardRepo repository.CardRepository, config *config.Config, logger *logrus.Logger) *CardService {
	return &CardService{
		CardRepo: cardRepo,
		config:   config,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *CardService) CreateCard(ctx context.Context, request *domain.CreateCardRequest) (*domain.Card, error) {
	currency := request.Currency
	if currency == "" {
		currency = s.config.Business.DefaultCurrency
	}

	card := &domain.Card{
		ID:        uuid.NewString(),
		Name:      request.Name,
		Balance:   request.Balance,
		Currency:  currency,
		Color:     request.Color,
		CreatedAt: s.now(),
	}

	if err := s.CardRepo.Create(ctx, card); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.WithField("card_id", card.ID).Info("Card created")
	return card, nil
}

func (s *CardService) ListCards(ctx context.Context) ([]*domain.Card, error) {
	cards, err := s.CardRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return cards, nil
}
