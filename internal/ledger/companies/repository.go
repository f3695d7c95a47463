package companies

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks-hq/openbooks/internal/ledger/shared"
)

// Repository reads the company directory.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (Company, error)
	// ListGroup returns the parent company plus its direct subsidiaries,
	// i.e. the consolidation group rooted at parentID.
	ListGroup(ctx context.Context, parentID uuid.UUID) ([]Company, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Company, error) {
	var c Company
	err := r.db.QueryRow(ctx, `SELECT id, name, base_currency, parent_company_id, created_at, updated_at
FROM companies WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.BaseCurrency, &c.ParentCompanyID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, shared.ErrCompanyNotFound
		}
		return Company{}, err
	}
	return c, nil
}

func (r *repository) ListGroup(ctx context.Context, parentID uuid.UUID) ([]Company, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, base_currency, parent_company_id, created_at, updated_at
FROM companies WHERE id=$1 OR parent_company_id=$1 ORDER BY name`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var group []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.BaseCurrency, &c.ParentCompanyID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		group = append(group, c)
	}
	return group, rows.Err()
}
