package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/pkg/utils"
)

type cardRow struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Balance   decimal.Decimal `db:"balance"`
	Currency  string          `db:"currency"`
	Color     string          `db:"color"`
	CreatedAt int64           `db:"created_at"`
}

type cardRepository struct {
	db *sqlx.DB
}

func NewCardRepository(db *sqlx.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *domain.Card) error {
	query := `
		INSERT INTO cards (id, name, balance, currency, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		card.ID, card.Name, card.Balance, card.Currency, card.Color, utils.ToEpochMillis(card.CreatedAt))
	return err
}

func (r *cardRepository) GetByID(ctx context.Context, cardID string) (*domain.Card, error) {
	query := `SELECT id, name, balance, currency, color, created_at FROM cards WHERE id = $1`

	var row cardRow
	if err := r.db.GetContext(ctx, &row, query, cardID); err != nil {
		return nil, err
	}

	return row.toDomain(), nil
}

func (r *cardRepository) List(ctx context.Context) ([]*domain.Card, error) {
	query := `SELECT id, name, balance, currency, color, created_at FROM cards ORDER BY created_at`

	var rows []cardRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	cards := make([]*domain.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.toDomain())
	}
	return cards, nil
}

func (row cardRow) toDomain() *domain.Card {
	return &domain.Card{
		ID:        row.ID,
		Name:      row.Name,
		Balance:   row.Balance,
		Currency:  row.Currency,
		Color:     row.Color,
		CreatedAt: utils.FromEpochMillis(row.CreatedAt),
	}
}
