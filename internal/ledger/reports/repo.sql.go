package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed read repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) OpeningBalances(ctx context.Context, companyID uuid.UUID, before time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	rows, err := r.db.Query(ctx, `SELECT jl.account_id, COALESCE(SUM(jl.base_debit - jl.base_credit), 0)
FROM journal_lines jl
JOIN journals j ON j.id = jl.journal_id
WHERE j.company_id = $1 AND j.date < $2
GROUP BY jl.account_id`, companyID, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	balances := make(map[uuid.UUID]decimal.Decimal)
	for rows.Next() {
		var accountID uuid.UUID
		var balance decimal.Decimal
		if err := rows.Scan(&accountID, &balance); err != nil {
			return nil, err
		}
		balances[accountID] = balance
	}
	return balances, rows.Err()
}

func (r *repository) Activity(ctx context.Context, companyID uuid.UUID, start, end *time.Time) (map[uuid.UUID]AccountActivity, error) {
	rows, err := r.db.Query(ctx, `SELECT jl.account_id, COALESCE(SUM(jl.base_debit), 0), COALESCE(SUM(jl.base_credit), 0)
FROM journal_lines jl
JOIN journals j ON j.id = jl.journal_id
WHERE j.company_id = $1
  AND ($2::timestamptz IS NULL OR j.date >= $2)
  AND ($3::timestamptz IS NULL OR j.date <= $3)
GROUP BY jl.account_id`, companyID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	activity := make(map[uuid.UUID]AccountActivity)
	for rows.Next() {
		var accountID uuid.UUID
		var act AccountActivity
		if err := rows.Scan(&accountID, &act.Debit, &act.Credit); err != nil {
			return nil, err
		}
		activity[accountID] = act
	}
	return activity, rows.Err()
}

func (r *repository) AccountOpeningBalance(ctx context.Context, companyID, accountID uuid.UUID, before time.Time) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(jl.base_debit - jl.base_credit), 0)
FROM journal_lines jl
JOIN journals j ON j.id = jl.journal_id
WHERE j.company_id = $1 AND jl.account_id = $2 AND j.date < $3`, companyID, accountID, before).
		Scan(&balance)
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *repository) AccountEntries(ctx context.Context, companyID, accountID uuid.UUID, start, end time.Time) ([]LedgerEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT jl.id, j.date, j.created_at, j.journal_number, COALESCE(jl.description, ''), COALESCE(j.reference, ''), jl.base_debit, jl.base_credit
FROM journal_lines jl
JOIN journals j ON j.id = jl.journal_id
WHERE j.company_id = $1 AND jl.account_id = $2 AND j.date >= $3 AND j.date <= $4
ORDER BY j.date, j.created_at`, companyID, accountID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.LineID, &e.Date, &e.CreatedAt, &e.JournalNumber, &e.Description, &e.Reference, &e.Debit, &e.Credit); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) CashPosition(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	var cash decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(jl.base_debit - jl.base_credit), 0)
FROM journal_lines jl
JOIN accounts a ON a.id = jl.account_id
WHERE a.company_id = $1 AND a.account_subtype IN ('cash', 'bank')`, companyID).
		Scan(&cash)
	if err != nil {
		return decimal.Zero, err
	}
	return cash, nil
}
