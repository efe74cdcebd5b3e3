package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
	"github.com/segyhp/loan-tracker/pkg/utils"
)

type friendLoanRow struct {
	ID          string          `db:"id"`
	FriendName  string          `db:"friend_name"`
	Amount      decimal.Decimal `db:"amount"`
	Currency    string          `db:"currency"`
	CardID      string          `db:"card_id"`
	LendDate    int64           `db:"lend_date"`
	Description string          `db:"description"`
	Status      string          `db:"status"`
	CreatedAt   int64           `db:"created_at"`
}

type paybackRow struct {
	ID            string          `db:"id"`
	FriendLoanID  string          `db:"friend_loan_id"`
	Seq           int             `db:"seq"`
	Amount        decimal.Decimal `db:"amount"`
	DueDate       int64           `db:"due_date"`
	PaidDate      sql.NullInt64   `db:"paid_date"`
	Status        string          `db:"status"`
	PaybackCardID sql.NullString  `db:"payback_card_id"`
}

const friendLoanColumns = `id, friend_name, amount, currency, card_id, lend_date, description, status, created_at`

const paybackColumns = `id, friend_loan_id, seq, amount, due_date, paid_date, status, payback_card_id`

type friendLoanRepository struct {
	db *sqlx.DB
}

func NewFriendLoanRepository(db *sqlx.DB) FriendLoanRepository {
	return &friendLoanRepository{db: db}
}

func (r *friendLoanRepository) Create(ctx context.Context, loan *domain.FriendLoan, lending *domain.Transaction) error {
	query := `
		INSERT INTO friend_loans (` + friendLoanColumns + `)
		VALUES (:id, :friend_name, :amount, :currency, :card_id, :lend_date, :description, :status, :created_at)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.NamedExecContext(ctx, query, toFriendLoanRow(loan)); err != nil {
		return err
	}

	paybackQuery := `
		INSERT INTO friend_loan_payments (` + paybackColumns + `)
		VALUES (:id, :friend_loan_id, :seq, :amount, :due_date, :paid_date, :status, :payback_card_id)
	`
	for i, payment := range loan.Payments {
		if _, err = tx.NamedExecContext(ctx, paybackQuery, toPaybackRow(loan.ID, i, payment)); err != nil {
			return err
		}
	}

	if err = debitCard(ctx, tx, loan.CardID, loan.Amount); err != nil {
		return err
	}

	if lending != nil {
		if err = insertTransaction(ctx, tx, lending); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *friendLoanRepository) GetByID(ctx context.Context, friendLoanID string) (*domain.FriendLoan, error) {
	query := `SELECT ` + friendLoanColumns + ` FROM friend_loans WHERE id = $1`

	var row friendLoanRow
	if err := r.db.GetContext(ctx, &row, query, friendLoanID); err != nil {
		return nil, err
	}

	loans, err := r.attachPaybacks(ctx, []friendLoanRow{row})
	if err != nil {
		return nil, err
	}

	return loans[0], nil
}

func (r *friendLoanRepository) List(ctx context.Context, status domain.FriendLoanStatus) ([]*domain.FriendLoan, error) {
	query := `SELECT ` + friendLoanColumns + ` FROM friend_loans
		WHERE ($1::text = '' OR status = $1::text) ORDER BY created_at DESC`

	var rows []friendLoanRow
	if err := r.db.SelectContext(ctx, &rows, query, string(status)); err != nil {
		return nil, err
	}

	return r.attachPaybacks(ctx, rows)
}

func (r *friendLoanRepository) SettlePayback(ctx context.Context, s PaybackSettlement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current paybackRow
	err = tx.GetContext(ctx, &current,
		`SELECT `+paybackColumns+` FROM friend_loan_payments WHERE friend_loan_id = $1 AND id = $2 FOR UPDATE`,
		s.FriendLoanID, s.PaymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return customError.ErrPaymentNotFound
	}
	if err != nil {
		return err
	}
	if domain.PaymentStatus(current.Status) == domain.PaymentStatusPaid {
		return customError.ErrPaymentAlreadyPaid
	}

	if err = creditCard(ctx, tx, s.CardID, current.Amount); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE friend_loan_payments SET status = $3, paid_date = $4, payback_card_id = $5
		WHERE friend_loan_id = $1 AND id = $2
	`, s.FriendLoanID, s.PaymentID, string(domain.PaymentStatusPaid), utils.ToEpochMillis(s.PaidDate), s.CardID)
	if err != nil {
		return err
	}

	if s.Transaction != nil {
		if err = insertTransaction(ctx, tx, s.Transaction); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `UPDATE friend_loans SET status = $2 WHERE id = $1`, s.FriendLoanID, string(s.Status))
	if err != nil {
		return err
	}
	if err = requireAffected(res, customError.ErrFriendLoanNotFound); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *friendLoanRepository) Delete(ctx context.Context, friendLoanID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friend_loans WHERE id = $1`, friendLoanID)
	if err != nil {
		return err
	}
	return requireAffected(res, customError.ErrFriendLoanNotFound)
}

func (r *friendLoanRepository) attachPaybacks(ctx context.Context, rows []friendLoanRow) ([]*domain.FriendLoan, error) {
	loans := make([]*domain.FriendLoan, 0, len(rows))
	if len(rows) == 0 {
		return loans, nil
	}

	ids := make([]string, 0, len(rows))
	byID := make(map[string]*domain.FriendLoan, len(rows))
	for _, row := range rows {
		loan := row.toDomain()
		loans = append(loans, loan)
		byID[loan.ID] = loan
		ids = append(ids, loan.ID)
	}

	var paybacks []paybackRow
	err := r.db.SelectContext(ctx, &paybacks,
		`SELECT `+paybackColumns+` FROM friend_loan_payments WHERE friend_loan_id = ANY($1)
			ORDER BY friend_loan_id, due_date, seq`,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}

	for _, p := range paybacks {
		if loan, ok := byID[p.FriendLoanID]; ok {
			loan.Payments = append(loan.Payments, p.toDomain())
		}
	}

	return loans, nil
}

func toFriendLoanRow(loan *domain.FriendLoan) friendLoanRow {
	return friendLoanRow{
		ID:          loan.ID,
		FriendName:  loan.FriendName,
		Amount:      loan.Amount,
		Currency:    loan.Currency,
		CardID:      loan.CardID,
		LendDate:    utils.ToEpochMillis(loan.LendDate),
		Description: loan.Description,
		Status:      string(loan.Status),
		CreatedAt:   utils.ToEpochMillis(loan.CreatedAt),
	}
}

func (row friendLoanRow) toDomain() *domain.FriendLoan {
	return &domain.FriendLoan{
		ID:          row.ID,
		FriendName:  row.FriendName,
		Amount:      row.Amount,
		Currency:    row.Currency,
		CardID:      row.CardID,
		LendDate:    utils.FromEpochMillis(row.LendDate),
		Description: row.Description,
		Payments:    []domain.FriendLoanPayment{},
		Status:      domain.FriendLoanStatus(row.Status),
		CreatedAt:   utils.FromEpochMillis(row.CreatedAt),
	}
}

func toPaybackRow(friendLoanID string, seq int, p domain.FriendLoanPayment) paybackRow {
	row := paybackRow{
		ID:           p.ID,
		FriendLoanID: friendLoanID,
		Seq:          seq,
		Amount:       p.Amount,
		DueDate:      utils.ToEpochMillis(p.DueDate),
		Status:       string(p.Status),
	}
	if p.PaidDate != nil {
		row.PaidDate = sql.NullInt64{Int64: utils.ToEpochMillis(*p.PaidDate), Valid: true}
	}
	if p.PaybackCardID != nil {
		row.PaybackCardID = sql.NullString{String: *p.PaybackCardID, Valid: true}
	}
	return row
}

func (row paybackRow) toDomain() domain.FriendLoanPayment {
	payment := domain.FriendLoanPayment{
		ID:      row.ID,
		Amount:  row.Amount,
		DueDate: utils.FromEpochMillis(row.DueDate),
		Status:  domain.PaymentStatus(row.Status),
	}
	if row.PaidDate.Valid {
		paid := utils.FromEpochMillis(row.PaidDate.Int64)
		payment.PaidDate = &paid
	}
	if row.PaybackCardID.Valid {
		cardID := row.PaybackCardID.String
		payment.PaybackCardID = &cardID
	}
	return payment
}
