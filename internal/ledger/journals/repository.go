package journals

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks-hq/openbooks/internal/ledger/shared"
)

// Repository encapsulates DB operations for journals. All multi-row writes
// go through WithTx so a concurrent reader never observes a header without
// its lines.
type Repository interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Journal, error)
	GetWithLines(ctx context.Context, companyID, journalID uuid.UUID) (Journal, []JournalLine, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations available inside a transaction.
type TxRepository interface {
	InsertJournal(ctx context.Context, j Journal) (Journal, error)
	InsertJournalLines(ctx context.Context, journalID uuid.UUID, lines []JournalLine) error
	GetJournalWithLines(ctx context.Context, companyID, journalID uuid.UUID) (Journal, []JournalLine, error)
	DeleteJournalLines(ctx context.Context, journalID uuid.UUID) error
	DeleteJournal(ctx context.Context, companyID, journalID uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const journalColumns = `id, company_id, journal_number, date, description, reference, source_type, source_id, total_amount, created_by, created_at, updated_at`

const lineColumns = `id, journal_id, account_id, description, debit, credit, currency, fx_rate, base_debit, base_credit, project_id, cost_center_id`

func scanJournal(row pgx.Row) (Journal, error) {
	var j Journal
	err := row.Scan(&j.ID, &j.CompanyID, &j.JournalNumber, &j.Date, &j.Description, &j.Reference,
		&j.SourceType, &j.SourceID, &j.TotalAmount, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

func (r *repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Journal, error) {
	rows, err := r.db.Query(ctx, `SELECT `+journalColumns+` FROM journals WHERE company_id=$1 ORDER BY date DESC, created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Journal
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, j)
	}
	return entries, rows.Err()
}

func (r *repository) GetWithLines(ctx context.Context, companyID, journalID uuid.UUID) (Journal, []JournalLine, error) {
	return getJournalWithLines(ctx, r.db, companyID, journalID)
}

// WithTx executes fn within a repeatable-read transaction, rolling back on
// any error from fn. Errors propagate unchanged; retries are caller policy
// since blindly re-running a multi-row insert risks duplicate journals.
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

// querier covers pool and transaction alike for the shared read paths.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *txRepository) InsertJournal(ctx context.Context, j Journal) (Journal, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO journals (company_id, journal_number, date, description, reference, source_type, source_id, total_amount, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id, created_at, updated_at`,
		j.CompanyID, j.JournalNumber, j.Date, j.Description, j.Reference, j.SourceType, j.SourceID, j.TotalAmount, j.CreatedBy)
	if err := row.Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return Journal{}, err
	}
	return j, nil
}

func (r *txRepository) InsertJournalLines(ctx context.Context, journalID uuid.UUID, lines []JournalLine) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (journal_id, account_id, description, debit, credit, currency, fx_rate, base_debit, base_credit, project_id, cost_center_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			journalID, line.AccountID, line.Description, line.Debit, line.Credit, line.Currency,
			line.FxRate, line.BaseDebit, line.BaseCredit, line.ProjectID, line.CostCenterID); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetJournalWithLines(ctx context.Context, companyID, journalID uuid.UUID) (Journal, []JournalLine, error) {
	return getJournalWithLines(ctx, r.tx, companyID, journalID)
}

func (r *txRepository) DeleteJournalLines(ctx context.Context, journalID uuid.UUID) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id=$1`, journalID)
	return err
}

func (r *txRepository) DeleteJournal(ctx context.Context, companyID, journalID uuid.UUID) error {
	cmd, err := r.tx.Exec(ctx, `DELETE FROM journals WHERE company_id=$1 AND id=$2`, companyID, journalID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrJournalNotFound
	}
	return nil
}

func getJournalWithLines(ctx context.Context, q querier, companyID, journalID uuid.UUID) (Journal, []JournalLine, error) {
	j, err := scanJournal(q.QueryRow(ctx, `SELECT `+journalColumns+` FROM journals WHERE company_id=$1 AND id=$2`, companyID, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Journal{}, nil, shared.ErrJournalNotFound
		}
		return Journal{}, nil, err
	}
	rows, err := q.Query(ctx, `SELECT `+lineColumns+` FROM journal_lines WHERE journal_id=$1 ORDER BY id`, journalID)
	if err != nil {
		return Journal{}, nil, err
	}
	defer rows.Close()
	var lines []JournalLine
	for rows.Next() {
		var line JournalLine
		if err := rows.Scan(&line.ID, &line.JournalID, &line.AccountID, &line.Description,
			&line.Debit, &line.Credit, &line.Currency, &line.FxRate,
			&line.BaseDebit, &line.BaseCredit, &line.ProjectID, &line.CostCenterID); err != nil {
			return Journal{}, nil, err
		}
		lines = append(lines, line)
	}
	return j, lines, rows.Err()
}
