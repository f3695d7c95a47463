package ar

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks-hq/openbooks/internal/ledger/aging"
	"github.com/openbooks-hq/openbooks/internal/ledger/shared"
)

// Repository encapsulates DB operations for sales invoices. Header and line
// writes go through WithTx so a reader never sees a partial document.
type Repository interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Invoice, error)
	GetWithLines(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error)
	// ListOutstanding returns open invoices joined with their contact,
	// excluding paid and cancelled documents and anything fully settled.
	ListOutstanding(ctx context.Context, companyID uuid.UUID) ([]aging.Document, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations available inside a transaction.
type TxRepository interface {
	InsertInvoice(ctx context.Context, inv Invoice) (Invoice, error)
	InsertLines(ctx context.Context, documentID uuid.UUID, lines []DocumentLine) error
	DeleteLines(ctx context.Context, documentID uuid.UUID) error
	DeleteInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const invoiceColumns = `id, company_id, contact_id, invoice_number, date, due_date, currency, total, paid_amount, status, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.ContactID, &inv.InvoiceNumber, &inv.Date, &inv.DueDate,
		&inv.Currency, &inv.Total, &inv.PaidAmount, &inv.Status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, `SELECT `+invoiceColumns+` FROM sales_invoices WHERE company_id=$1 ORDER BY date DESC, created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *repository) GetWithLines(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM sales_invoices WHERE company_id=$1 AND id=$2`, companyID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, shared.ErrInvoiceNotFound
		}
		return Invoice{}, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, document_id, line_number, item_id, description, quantity, rate, discount, amount
FROM document_lines WHERE document_type='invoice' AND document_id=$1 ORDER BY line_number`, invoiceID)
	if err != nil {
		return Invoice{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var line DocumentLine
		if err := rows.Scan(&line.ID, &line.DocumentID, &line.LineNumber, &line.ItemID,
			&line.Description, &line.Quantity, &line.Rate, &line.Discount, &line.Amount); err != nil {
			return Invoice{}, err
		}
		inv.Lines = append(inv.Lines, line)
	}
	return inv, rows.Err()
}

func (r *repository) ListOutstanding(ctx context.Context, companyID uuid.UUID) ([]aging.Document, error) {
	rows, err := r.db.Query(ctx, `SELECT i.id, i.invoice_number, i.contact_id, c.name, c.email, i.date, i.due_date, i.total, i.paid_amount, i.currency
FROM sales_invoices i
JOIN contacts c ON c.id = i.contact_id
WHERE i.company_id=$1 AND i.status NOT IN ('paid','cancelled') AND i.total - i.paid_amount > 0
ORDER BY i.due_date`, companyID)
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

func (r *txRepository) InsertInvoice(ctx context.Context, inv Invoice) (Invoice, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO sales_invoices (company_id, contact_id, invoice_number, date, due_date, currency, total, paid_amount, status, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id, created_at, updated_at`,
		inv.CompanyID, inv.ContactID, inv.InvoiceNumber, inv.Date, inv.DueDate, inv.Currency,
		inv.Total, inv.PaidAmount, inv.Status, inv.Notes)
	if err := row.Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (r *txRepository) InsertLines(ctx context.Context, documentID uuid.UUID, lines []DocumentLine) error {
	for i, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO document_lines (document_type, document_id, line_number, item_id, description, quantity, rate, discount, amount)
VALUES ('invoice',$1,$2,$3,$4,$5,$6,$7,$8)`,
			documentID, i+1, line.ItemID, line.Description, line.Quantity, line.Rate, line.Discount, line.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) DeleteLines(ctx context.Context, documentID uuid.UUID) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM document_lines WHERE document_type='invoice' AND document_id=$1`, documentID)
	return err
}

func (r *txRepository) DeleteInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) error {
	cmd, err := r.tx.Exec(ctx, `DELETE FROM sales_invoices WHERE company_id=$1 AND id=$2`, companyID, invoiceID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrInvoiceNotFound
	}
	return nil
}
