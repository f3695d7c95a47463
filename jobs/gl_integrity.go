package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/openbooks-hq/openbooks/internal/jobs"
	"github.com/openbooks-hq/openbooks/internal/ledger/posting"
)

// GLViolation is one journal whose posted lines no longer balance.
type GLViolation struct {
	JournalID     string
	JournalNumber string
	CompanyID     string
	TotalDebit    float64
	TotalCredit   float64
	Difference    float64
}

// GLIntegrityJob re-verifies the double-entry invariant over committed
// journals. The posting path already enforces balance before commit, so any
// hit here points at out-of-band writes or data corruption. Read-only.
type GLIntegrityJob struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

func NewGLIntegrityJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *GLIntegrityJob {
	return &GLIntegrityJob{pool: pool, logger: logger, metrics: metrics}
}

// Handle processes a TaskGLIntegrity task.
func (j *GLIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload GLIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := j.metrics.Track("gl_integrity")
	_, err := j.Run(ctx, payload.Tolerance)
	return tracker.End(err)
}

// Run scans every journal whose line sums drift beyond tolerance and logs
// each violation. A zero tolerance falls back to the posting default.
func (j *GLIntegrityJob) Run(ctx context.Context, tolerance float64) ([]GLViolation, error) {
	if tolerance <= 0 {
		tolerance = posting.Tolerance
	}

	rows, err := j.pool.Query(ctx, `SELECT j.id, j.journal_number, j.company_id,
COALESCE(SUM(l.base_debit), 0) AS total_debit,
COALESCE(SUM(l.base_credit), 0) AS total_credit
FROM journals j
LEFT JOIN journal_lines l ON l.journal_id = j.id
GROUP BY j.id, j.journal_number, j.company_id
HAVING ABS(COALESCE(SUM(l.base_debit), 0) - COALESCE(SUM(l.base_credit), 0)) > $1`, tolerance)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var violations []GLViolation
	for rows.Next() {
		var v GLViolation
		if err := rows.Scan(&v.JournalID, &v.JournalNumber, &v.CompanyID, &v.TotalDebit, &v.TotalCredit); err != nil {
			return nil, err
		}
		v.Difference = v.TotalDebit - v.TotalCredit
		violations = append(violations, v)
		j.logger.Error("journal out of balance",
			slog.String("journal_id", v.JournalID),
			slog.String("journal_number", v.JournalNumber),
			slog.String("company_id", v.CompanyID),
			slog.Float64("total_debit", v.TotalDebit),
			slog.Float64("total_credit", v.TotalCredit),
			slog.Float64("difference", v.Difference))
		j.metrics.AddViolations(v.CompanyID, 1)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	j.logger.Info("gl integrity scan complete",
		slog.Int("violations", len(violations)),
		slog.Float64("tolerance", tolerance))
	return violations, nil
}
