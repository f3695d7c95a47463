package ap

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks-hq/openbooks/internal/ledger/aging"
	"github.com/openbooks-hq/openbooks/internal/ledger/shared"
)

// Repository encapsulates DB operations for bills. Header and line writes go
// through WithTx so a reader never sees a partial document.
type Repository interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Bill, error)
	GetWithLines(ctx context.Context, companyID, billID uuid.UUID) (Bill, error)
	// ListOutstanding returns open bills joined with their supplier,
	// excluding paid and cancelled documents and anything fully settled.
	ListOutstanding(ctx context.Context, companyID uuid.UUID) ([]aging.Document, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations available inside a transaction.
type TxRepository interface {
	InsertBill(ctx context.Context, b Bill) (Bill, error)
	InsertLines(ctx context.Context, documentID uuid.UUID, lines []DocumentLine) error
	DeleteLines(ctx context.Context, documentID uuid.UUID) error
	DeleteBill(ctx context.Context, companyID, billID uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const billColumns = `id, company_id, contact_id, bill_number, date, due_date, currency, total, paid_amount, status, notes, created_at, updated_at`

func scanBill(row pgx.Row) (Bill, error) {
	var b Bill
	err := row.Scan(&b.ID, &b.CompanyID, &b.ContactID, &b.BillNumber, &b.Date, &b.DueDate,
		&b.Currency, &b.Total, &b.PaidAmount, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Bill, error) {
	rows, err := r.db.Query(ctx, `SELECT `+billColumns+` FROM bills WHERE company_id=$1 ORDER BY date DESC, created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bills []Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *repository) GetWithLines(ctx context.Context, companyID, billID uuid.UUID) (Bill, error) {
	b, err := scanBill(r.db.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE company_id=$1 AND id=$2`, companyID, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Bill{}, shared.ErrBillNotFound
		}
		return Bill{}, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, document_id, line_number, item_id, description, quantity, rate, discount, amount
FROM document_lines WHERE document_type='bill' AND document_id=$1 ORDER BY line_number`, billID)
	if err != nil {
		return Bill{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var line DocumentLine
		if err := rows.Scan(&line.ID, &line.DocumentID, &line.LineNumber, &line.ItemID,
			&line.Description, &line.Quantity, &line.Rate, &line.Discount, &line.Amount); err != nil {
			return Bill{}, err
		}
		b.Lines = append(b.Lines, line)
	}
	return b, rows.Err()
}

func (r *repository) ListOutstanding(ctx context.Context, companyID uuid.UUID) ([]aging.Document, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.bill_number, b.contact_id, c.name, c.email, b.date, b.due_date, b.total, b.paid_amount, b.currency
FROM bills b
JOIN contacts c ON c.id = b.contact_id
WHERE b.company_id=$1 AND b.status NOT IN ('paid','cancelled') AND b.total - b.paid_amount > 0
ORDER BY b.due_date`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []aging.Document
	for rows.Next() {
		var d aging.Document
		if err := rows.Scan(&d.ID, &d.Number, &d.ContactID, &d.ContactName, &d.ContactEmail,
			&d.Date, &d.DueDate, &d.Total, &d.Paid, &d.Currency); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) InsertBill(ctx context.Context, b Bill) (Bill, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO bills (company_id, contact_id, bill_number, date, due_date, currency, total, paid_amount, status, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id, created_at, updated_at`,
		b.CompanyID, b.ContactID, b.BillNumber, b.Date, b.DueDate, b.Currency,
		b.Total, b.PaidAmount, b.Status, b.Notes)
	if err := row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Bill{}, err
	}
	return b, nil
}

func (r *txRepository) InsertLines(ctx context.Context, documentID uuid.UUID, lines []DocumentLine) error {
	for i, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO document_lines (document_type, document_id, line_number, item_id, description, quantity, rate, discount, amount)
VALUES ('bill',$1,$2,$3,$4,$5,$6,$7,$8)`,
			documentID, i+1, line.ItemID, line.Description, line.Quantity, line.Rate, line.Discount, line.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) DeleteLines(ctx context.Context, documentID uuid.UUID) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM document_lines WHERE document_type='bill' AND document_id=$1`, documentID)
	return err
}

func (r *txRepository) DeleteBill(ctx context.Context, companyID, billID uuid.UUID) error {
	cmd, err := r.tx.Exec(ctx, `DELETE FROM bills WHERE company_id=$1 AND id=$2`, companyID, billID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrBillNotFound
	}
	return nil
}
