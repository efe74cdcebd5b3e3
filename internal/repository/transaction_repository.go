package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/pkg/utils"
)

type transactionRow struct {
	ID            string          `db:"id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	Currency      string          `db:"currency"`
	CardID        string          `db:"card_id"`
	Description   string          `db:"description"`
	Date          int64           `db:"date"`
	Source        string          `db:"source"`
	LoanID        sql.NullString  `db:"loan_id"`
	LoanPaymentID sql.NullString  `db:"loan_payment_id"`
	FriendLoanID  sql.NullString  `db:"friend_loan_id"`
	FriendPayment sql.NullString  `db:"friend_loan_payment_id"`
}

const transactionColumns = `id, type, amount, currency, card_id, description, date, source, loan_id, loan_payment_id,
	friend_loan_id, friend_loan_payment_id`

type transactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) ListByLoanID(ctx context.Context, loanID string) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE loan_id = $1 ORDER BY date DESC, id`
	return r.list(ctx, query, loanID)
}

func (r *transactionRepository) ListByFriendLoanID(ctx context.Context, friendLoanID string) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE friend_loan_id = $1 ORDER BY date DESC, id`
	return r.list(ctx, query, friendLoanID)
}

func (r *transactionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Transaction, error) {
	var rows []transactionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, row.toDomain())
	}
	return transactions, nil
}

// insertTransaction runs inside the settlement transactions of the loan repository
func insertTransaction(ctx context.Context, tx *sqlx.Tx, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (:id, :type, :amount, :currency, :card_id, :description, :date, :source, :loan_id, :loan_payment_id,
			:friend_loan_id, :friend_loan_payment_id)
	`

	_, err := tx.NamedExecContext(ctx, query, toTransactionRow(t))
	return err
}

func toTransactionRow(t *domain.Transaction) transactionRow {
	row := transactionRow{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Currency:    t.Currency,
		CardID:      t.CardID,
		Description: t.Description,
		Date:        utils.ToEpochMillis(t.Date),
		Source:      string(t.Source),
	}
	if t.LoanID != nil {
		row.LoanID = sql.NullString{String: *t.LoanID, Valid: true}
	}
	if t.LoanPaymentID != nil {
		row.LoanPaymentID = sql.NullString{String: *t.LoanPaymentID, Valid: true}
	}
	if t.FriendLoanID != nil {
		row.FriendLoanID = sql.NullString{String: *t.FriendLoanID, Valid: true}
	}
	if t.FriendLoanPaymentID != nil {
		row.FriendPayment = sql.NullString{String: *t.FriendLoanPaymentID, Valid: true}
	}
	return row
}

func (row transactionRow) toDomain() *domain.Transaction {
	t := &domain.Transaction{
		ID:          row.ID,
		Type:        domain.TransactionType(row.Type),
		Amount:      row.Amount,
		Currency:    row.Currency,
		CardID:      row.CardID,
		Description: row.Description,
		Date:        utils.FromEpochMillis(row.Date),
		Source:      domain.TransactionSource(row.Source),
	}
	if row.LoanID.Valid {
		loanID := row.LoanID.String
		t.LoanID = &loanID
	}
	if row.LoanPaymentID.Valid {
		paymentID := row.LoanPaymentID.String
		t.LoanPaymentID = &paymentID
	}
	if row.FriendLoanID.Valid {
		friendLoanID := row.FriendLoanID.String
		t.FriendLoanID = &friendLoanID
	}
	if row.FriendPayment.Valid {
		paymentID := row.FriendPayment.String
		t.FriendLoanPaymentID = &paymentID
	}
	return t
}
