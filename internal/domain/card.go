package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card is a funding source that loan payments and wage fees are debited from
type Card struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Color     string          `json:"color"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreateCardRequest struct {
	Name     string          `json:"name" validate:"required,max=80"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency" validate:"omitempty,len=3"`
	Color    string          `json:"color" validate:"omitempty,max=16"`
}
