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

type loanRow struct {
	ID                   string          `db:"id"`
	Name                 string          `db:"name"`
	PrincipalAmount      decimal.Decimal `db:"principal_amount"`
	TotalPayback         decimal.Decimal `db:"total_payback"`
	WageFee              decimal.Decimal `db:"wage_fee"`
	WageFeePaid          bool            `db:"wage_fee_paid"`
	WageFeePaymentCardID sql.NullString  `db:"wage_fee_payment_card_id"`
	StartDate            int64           `db:"start_date"`
	EndDate              int64           `db:"end_date"`
	PaymentDay           sql.NullInt32   `db:"payment_day"`
	InterestRate         decimal.Decimal `db:"interest_rate"`
	Status               string          `db:"status"`
	Currency             string          `db:"currency"`
	CreatedAt            int64           `db:"created_at"`
}

type paymentRow struct {
	ID            string          `db:"id"`
	LoanID        string          `db:"loan_id"`
	Seq           int             `db:"seq"`
	Amount        decimal.Decimal `db:"amount"`
	DueDate       int64           `db:"due_date"`
	PaidDate      sql.NullInt64   `db:"paid_date"`
	Status        string          `db:"status"`
	PaymentCardID sql.NullString  `db:"payment_card_id"`
}

const loanColumns = `id, name, principal_amount, total_payback, wage_fee, wage_fee_paid, wage_fee_payment_card_id,
	start_date, end_date, payment_day, interest_rate, status, currency, created_at`

const paymentColumns = `id, loan_id, seq, amount, due_date, paid_date, status, payment_card_id`

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES (:id, :name, :principal_amount, :total_payback, :wage_fee, :wage_fee_paid, :wage_fee_payment_card_id,
			:start_date, :end_date, :payment_day, :interest_rate, :status, :currency, :created_at)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.NamedExecContext(ctx, query, toLoanRow(loan)); err != nil {
		return err
	}

	if err = insertPayments(ctx, tx, loan.ID, loan.Payments); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *loanRepository) GetByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var row loanRow
	if err := r.db.GetContext(ctx, &row, query, loanID); err != nil {
		return nil, err
	}

	loans, err := r.attachPayments(ctx, []loanRow{row})
	if err != nil {
		return nil, err
	}

	return loans[0], nil
}

func (r *loanRepository) List(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE ($1::text = '' OR status = $1::text) ORDER BY created_at DESC`

	var rows []loanRow
	if err := r.db.SelectContext(ctx, &rows, query, string(status)); err != nil {
		return nil, err
	}

	return r.attachPayments(ctx, rows)
}

func (r *loanRepository) ListUnsettled(ctx context.Context) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE status <> $1 ORDER BY created_at`

	var rows []loanRow
	if err := r.db.SelectContext(ctx, &rows, query, string(domain.LoanStatusCompleted)); err != nil {
		return nil, err
	}

	return r.attachPayments(ctx, rows)
}

func (r *loanRepository) UpdateStatus(ctx context.Context, loanID string, status domain.LoanStatus) error {
	query := `UPDATE loans SET status = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, loanID, string(status))
	if err != nil {
		return err
	}
	return requireAffected(res, customError.ErrLoanNotFound)
}

func (r *loanRepository) ReplacePayments(ctx context.Context, loanID string, payments []domain.LoanPayment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM loan_payments WHERE loan_id = $1`, loanID); err != nil {
		return err
	}

	if err = insertPayments(ctx, tx, loanID, payments); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *loanRepository) SettlePayment(ctx context.Context, s PaymentSettlement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Lock the installment so two concurrent settlements cannot both see it pending
	var current paymentRow
	err = tx.GetContext(ctx, &current,
		`SELECT `+paymentColumns+` FROM loan_payments WHERE loan_id = $1 AND id = $2 FOR UPDATE`,
		s.LoanID, s.PaymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return customError.ErrPaymentNotFound
	}
	if err != nil {
		return err
	}
	if domain.PaymentStatus(current.Status) == domain.PaymentStatusPaid {
		return customError.ErrPaymentAlreadyPaid
	}

	if err = debitCard(ctx, tx, s.CardID, current.Amount); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE loan_payments SET status = $3, paid_date = $4, payment_card_id = $5
		WHERE loan_id = $1 AND id = $2
	`, s.LoanID, s.PaymentID, string(domain.PaymentStatusPaid), utils.ToEpochMillis(s.PaidDate), s.CardID)
	if err != nil {
		return err
	}

	if s.Transaction != nil {
		if err = insertTransaction(ctx, tx, s.Transaction); err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx, `UPDATE loans SET status = $2 WHERE id = $1`, s.LoanID, string(s.LoanStatus)); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *loanRepository) SettleWageFee(ctx context.Context, s WageFeeSettlement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var paid bool
	err = tx.GetContext(ctx, &paid, `SELECT wage_fee_paid FROM loans WHERE id = $1 FOR UPDATE`, s.LoanID)
	if errors.Is(err, sql.ErrNoRows) {
		return customError.ErrLoanNotFound
	}
	if err != nil {
		return err
	}
	if paid {
		return customError.ErrWageFeeAlreadyPaid
	}

	if err = debitCard(ctx, tx, s.CardID, s.Amount); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE loans SET wage_fee_paid = TRUE, wage_fee_payment_card_id = $2 WHERE id = $1`,
		s.LoanID, s.CardID)
	if err != nil {
		return err
	}

	if s.Transaction != nil {
		if err = insertTransaction(ctx, tx, s.Transaction); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *loanRepository) Delete(ctx context.Context, loanID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, loanID)
	if err != nil {
		return err
	}
	return requireAffected(res, customError.ErrLoanNotFound)
}

// attachPayments loads the schedules of all rows with a single query
func (r *loanRepository) attachPayments(ctx context.Context, rows []loanRow) ([]*domain.Loan, error) {
	loans := make([]*domain.Loan, 0, len(rows))
	if len(rows) == 0 {
		return loans, nil
	}

	ids := make([]string, 0, len(rows))
	byID := make(map[string]*domain.Loan, len(rows))
	for _, row := range rows {
		loan := row.toDomain()
		loans = append(loans, loan)
		byID[loan.ID] = loan
		ids = append(ids, loan.ID)
	}

	var payments []paymentRow
	err := r.db.SelectContext(ctx, &payments,
		`SELECT `+paymentColumns+` FROM loan_payments WHERE loan_id = ANY($1) ORDER BY loan_id, due_date, seq`,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}

	for _, p := range payments {
		if loan, ok := byID[p.LoanID]; ok {
			loan.Payments = append(loan.Payments, p.toDomain())
		}
	}

	return loans, nil
}

func insertPayments(ctx context.Context, tx *sqlx.Tx, loanID string, payments []domain.LoanPayment) error {
	query := `
		INSERT INTO loan_payments (` + paymentColumns + `)
		VALUES (:id, :loan_id, :seq, :amount, :due_date, :paid_date, :status, :payment_card_id)
	`

	for i, payment := range payments {
		if _, err := tx.NamedExecContext(ctx, query, toPaymentRow(loanID, i, payment)); err != nil {
			return err
		}
	}
	return nil
}

func debitCard(ctx context.Context, tx *sqlx.Tx, cardID string, amount decimal.Decimal) error {
	return creditCard(ctx, tx, cardID, amount.Neg())
}

func creditCard(ctx context.Context, tx *sqlx.Tx, cardID string, amount decimal.Decimal) error {
	res, err := tx.ExecContext(ctx, `UPDATE cards SET balance = balance + $2 WHERE id = $1`, cardID, amount)
	if err != nil {
		return err
	}
	return requireAffected(res, customError.ErrCardNotFound)
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func toLoanRow(loan *domain.Loan) loanRow {
	row := loanRow{
		ID:              loan.ID,
		Name:            loan.Name,
		PrincipalAmount: loan.PrincipalAmount,
		TotalPayback:    loan.TotalPayback,
		WageFee:         loan.WageFee,
		WageFeePaid:     loan.WageFeePaid,
		StartDate:       utils.ToEpochMillis(loan.StartDate),
		EndDate:         utils.ToEpochMillis(loan.EndDate),
		InterestRate:    loan.InterestRate,
		Status:          string(loan.Status),
		Currency:        loan.Currency,
		CreatedAt:       utils.ToEpochMillis(loan.CreatedAt),
	}
	if loan.WageFeePaymentCardID != nil {
		row.WageFeePaymentCardID = sql.NullString{String: *loan.WageFeePaymentCardID, Valid: true}
	}
	if loan.PaymentDay != nil {
		row.PaymentDay = sql.NullInt32{Int32: int32(*loan.PaymentDay), Valid: true}
	}
	return row
}

func (row loanRow) toDomain() *domain.Loan {
	loan := &domain.Loan{
		ID:              row.ID,
		Name:            row.Name,
		PrincipalAmount: row.PrincipalAmount,
		TotalPayback:    row.TotalPayback,
		WageFee:         row.WageFee,
		WageFeePaid:     row.WageFeePaid,
		StartDate:       utils.FromEpochMillis(row.StartDate),
		EndDate:         utils.FromEpochMillis(row.EndDate),
		InterestRate:    row.InterestRate,
		Payments:        []domain.LoanPayment{},
		Status:          domain.LoanStatus(row.Status),
		Currency:        row.Currency,
		CreatedAt:       utils.FromEpochMillis(row.CreatedAt),
	}
	if row.WageFeePaymentCardID.Valid {
		cardID := row.WageFeePaymentCardID.String
		loan.WageFeePaymentCardID = &cardID
	}
	if row.PaymentDay.Valid {
		day := int(row.PaymentDay.Int32)
		loan.PaymentDay = &day
	}
	return loan
}

func toPaymentRow(loanID string, seq int, p domain.LoanPayment) paymentRow {
	row := paymentRow{
		ID:      p.ID,
		LoanID:  loanID,
		Seq:     seq,
		Amount:  p.Amount,
		DueDate: utils.ToEpochMillis(p.DueDate),
		Status:  string(p.Status),
	}
	if p.PaidDate != nil {
		row.PaidDate = sql.NullInt64{Int64: utils.ToEpochMillis(*p.PaidDate), Valid: true}
	}
	if p.PaymentCardID != nil {
		row.PaymentCardID = sql.NullString{String: *p.PaymentCardID, Valid: true}
	}
	return row
}

func (row paymentRow) toDomain() domain.LoanPayment {
	payment := domain.LoanPayment{
		ID:      row.ID,
		Amount:  row.Amount,
		DueDate: utils.FromEpochMillis(row.DueDate),
		Status:  domain.PaymentStatus(row.Status),
	}
	if row.PaidDate.Valid {
		paid := utils.FromEpochMillis(row.PaidDate.Int64)
		payment.PaidDate = &paid
	}
	if row.PaymentCardID.Valid {
		cardID := row.PaymentCardID.String
		payment.PaymentCardID = &cardID
	}
	return payment
}
