package journals

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks-hq/openbooks/internal/ledger/companies"
	"github.com/openbooks-hq/openbooks/internal/ledger/posting"
)

// Service is the transactional writer for the ledger. Every multi-row write
// (journal+lines, reversal, delete) runs inside a single database
// transaction; nothing slow or remote is allowed inside the transaction
// boundary.
type Service struct {
	repo      Repository
	companies companies.Repository
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, companyRepo companies.Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, companies: companyRepo, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID) ([]Journal, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, journalID uuid.UUID) (Journal, error) {
	journal, lines, err := s.repo.GetWithLines(ctx, companyID, journalID)
	if err != nil {
		return Journal{}, err
	}
	journal.Lines = lines
	return journal, nil
}

// CreateJournalWithLines validates the double-entry invariant before the
// transaction opens (fail fast, nothing touches the database when
// unbalanced), then commits header and lines atomically.
func (s *Service) CreateJournalWithLines(ctx context.Context, input PostingInput) (Journal, error) {
	if err := input.Validate(); err != nil {
		return Journal{}, err
	}
	if err := posting.ValidateDoubleEntry(input.LineAmounts()); err != nil {
		s.logger.Error("double-entry validation failed",
			slog.String("journal_number", input.JournalNumber),
			slog.String("company_id", input.CompanyID.String()),
			slog.Any("error", err))
		return Journal{}, err
	}

	company, err := s.companies.Get(ctx, input.CompanyID)
	if err != nil {
		return Journal{}, err
	}
	lines := input.BuildLines(company.BaseCurrency)

	header := Journal{
		CompanyID:     input.CompanyID,
		JournalNumber: input.JournalNumber,
		Date:          input.Date,
		Description:   input.Description,
		Reference:     input.Reference,
		SourceType:    input.SourceType,
		SourceID:      input.SourceID,
		TotalAmount:   totalBaseDebit(lines),
		CreatedBy:     input.CreatedBy,
	}

	var journal Journal
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inserted, err := tx.InsertJournal(ctx, header)
		if err != nil {
			return err
		}
		if err := tx.InsertJournalLines(ctx, inserted.ID, lines); err != nil {
			return err
		}
		journal = inserted
		return nil
	})
	if err != nil {
		return Journal{}, err
	}
	journal.Lines = ownLines(journal.ID, lines)

	s.logger.Info("posted journal",
		slog.String("journal_id", journal.ID.String()),
		slog.String("company_id", journal.CompanyID.String()),
		slog.String("source_type", journal.SourceType),
		slog.Int("lines", len(journal.Lines)))
	return journal, nil
}

// DeleteJournalWithLines removes a journal and its lines together. The
// journal exclusively owns its lines, so both go in one transaction.
// Deletion is administrative; corrections should use ReverseJournalEntry.
func (s *Service) DeleteJournalWithLines(ctx context.Context, companyID, journalID uuid.UUID) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, _, err := tx.GetJournalWithLines(ctx, companyID, journalID); err != nil {
			return err
		}
		if err := tx.DeleteJournalLines(ctx, journalID); err != nil {
			return err
		}
		return tx.DeleteJournal(ctx, companyID, journalID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("deleted journal",
		slog.String("journal_id", journalID.String()),
		slog.String("company_id", companyID.String()))
	return nil
}

// ReverseJournalEntry creates a mirror journal negating the original:
// each line's debit and credit are swapped on the same account, currency and
// fx rate, so the reversing journal balances by construction. The original
// is never mutated.
func (s *Service) ReverseJournalEntry(ctx context.Context, journalID, companyID uuid.UUID, reversingDate time.Time, reason string) (Journal, error) {
	var reversal Journal
	var mirrored []JournalLine
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		original, lines, err := tx.GetJournalWithLines(ctx, companyID, journalID)
		if err != nil {
			return err
		}
		header := Journal{
			CompanyID:     companyID,
			JournalNumber: "REV-" + original.JournalNumber,
			Date:          reversingDate,
			Description:   "Reversal: " + reason,
			Reference:     "Reverses " + original.JournalNumber,
			SourceType:    SourceReversal,
			SourceID:      &original.ID,
			TotalAmount:   original.TotalAmount,
			CreatedBy:     original.CreatedBy,
		}
		inserted, err := tx.InsertJournal(ctx, header)
		if err != nil {
			return err
		}
		mirrored = reverseLines(lines)
		if err := tx.InsertJournalLines(ctx, inserted.ID, mirrored); err != nil {
			return err
		}
		reversal = inserted
		return nil
	})
	if err != nil {
		return Journal{}, err
	}
	reversal.Lines = ownLines(reversal.ID, mirrored)

	s.logger.Info("reversed journal",
		slog.String("original_journal_id", journalID.String()),
		slog.String("reversal_journal_id", reversal.ID.String()),
		slog.String("reason", reason))
	return reversal, nil
}

// reverseLines swaps debit and credit on every line, base amounts included.
func reverseLines(lines []JournalLine) []JournalLine {
	out := make([]JournalLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, JournalLine{
			AccountID:    line.AccountID,
			Description:  "Reversal of: " + line.Description,
			Debit:        line.Credit,
			Credit:       line.Debit,
			Currency:     line.Currency,
			FxRate:       line.FxRate,
			BaseDebit:    line.BaseCredit,
			BaseCredit:   line.BaseDebit,
			ProjectID:    line.ProjectID,
			CostCenterID: line.CostCenterID,
		})
	}
	return out
}

func ownLines(journalID uuid.UUID, lines []JournalLine) []JournalLine {
	owned := make([]JournalLine, len(lines))
	copy(owned, lines)
	for i := range owned {
		owned[i].JournalID = journalID
	}
	return owned
}

func totalBaseDebit(lines []JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.BaseDebit)
	}
	return total
}
