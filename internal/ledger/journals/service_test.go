package journals

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/openbooks-hq/openbooks/internal/ledger/companies"
	"github.com/openbooks-hq/openbooks/internal/ledger/posting"
	"github.com/openbooks-hq/openbooks/internal/ledger/shared"
)

var errLineInsertFault = errors.New("simulated line insert failure")

type memoryRepo struct {
	journals map[uuid.UUID]Journal
	lines    map[uuid.UUID][]JournalLine

	txCalls        int
	failLineInsert bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		journals: make(map[uuid.UUID]Journal),
		lines:    make(map[uuid.UUID][]JournalLine),
	}
}

func (r *memoryRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Journal, error) {
	var out []Journal
	for _, j := range r.journals {
		if j.CompanyID == companyID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetWithLines(ctx context.Context, companyID, journalID uuid.UUID) (Journal, []JournalLine, error) {
	return (&memoryTx{repo: r}).GetJournalWithLines(ctx, companyID, journalID)
}

// WithTx snapshots state up front and restores it when fn fails, mirroring
// rollback semantics.
func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.txCalls++
	journalsSnap := make(map[uuid.UUID]Journal, len(r.journals))
	for k, v := range r.journals {
		journalsSnap[k] = v
	}
	linesSnap := make(map[uuid.UUID][]JournalLine, len(r.lines))
	for k, v := range r.lines {
		linesSnap[k] = append([]JournalLine(nil), v...)
	}
	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.journals = journalsSnap
		r.lines = linesSnap
		return err
	}
	return nil
}

type memoryTx struct {
	repo *memoryRepo
}

func (t *memoryTx) InsertJournal(ctx context.Context, j Journal) (Journal, error) {
	j.ID = uuid.New()
	now := time.Now()
	j.CreatedAt = now
	j.UpdatedAt = now
	t.repo.journals[j.ID] = j
	return j, nil
}

func (t *memoryTx) InsertJournalLines(ctx context.Context, journalID uuid.UUID, lines []JournalLine) error {
	if t.repo.failLineInsert {
		return errLineInsertFault
	}
	for _, line := range lines {
		line.ID = uuid.New()
		line.JournalID = journalID
		t.repo.lines[journalID] = append(t.repo.lines[journalID], line)
	}
	return nil
}

func (t *memoryTx) GetJournalWithLines(ctx context.Context, companyID, journalID uuid.UUID) (Journal, []JournalLine, error) {
	j, ok := t.repo.journals[journalID]
	if !ok || j.CompanyID != companyID {
		return Journal{}, nil, shared.ErrJournalNotFound
	}
	return j, append([]JournalLine(nil), t.repo.lines[journalID]...), nil
}

func (t *memoryTx) DeleteJournalLines(ctx context.Context, journalID uuid.UUID) error {
	delete(t.repo.lines, journalID)
	return nil
}

func (t *memoryTx) DeleteJournal(ctx context.Context, companyID, journalID uuid.UUID) error {
	j, ok := t.repo.journals[journalID]
	if !ok || j.CompanyID != companyID {
		return shared.ErrJournalNotFound
	}
	delete(t.repo.journals, journalID)
	return nil
}

type memoryCompanyRepo struct {
	byID map[uuid.UUID]companies.Company
}

func (r *memoryCompanyRepo) Get(ctx context.Context, id uuid.UUID) (companies.Company, error) {
	c, ok := r.byID[id]
	if !ok {
		return companies.Company{}, shared.ErrCompanyNotFound
	}
	return c, nil
}

func (r *memoryCompanyRepo) ListGroup(ctx context.Context, parentID uuid.UUID) ([]companies.Company, error) {
	var out []companies.Company
	for _, c := range r.byID {
		if c.ID == parentID || c.IsSubsidiaryOf(parentID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo, uuid.UUID) {
	t.Helper()
	repo := newMemoryRepo()
	companyID := uuid.New()
	companyRepo := &memoryCompanyRepo{byID: map[uuid.UUID]companies.Company{
		companyID: {ID: companyID, Name: "Acme Trading", BaseCurrency: "USD"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, companyRepo, logger), repo, companyID
}

func balancedInput(companyID uuid.UUID) PostingInput {
	return PostingInput{
		CompanyID:     companyID,
		JournalNumber: "JRN-001",
		Date:          time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Description:   "Cash sale",
		SourceType:    SourceManual,
		Lines: []LineInput{
			{AccountID: uuid.New(), Description: "Cash", Debit: "1000.00", Credit: "0"},
			{AccountID: uuid.New(), Description: "Revenue", Debit: "0", Credit: "1000.00"},
		},
	}
}

func TestCreateJournalWithLines(t *testing.T) {
	svc, repo, companyID := newTestService(t)

	journal, err := svc.CreateJournalWithLines(context.Background(), balancedInput(companyID))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, journal.ID)
	require.Len(t, journal.Lines, 2)
	require.Len(t, repo.lines[journal.ID], 2)

	require.True(t, journal.TotalAmount.Equal(decimal.NewFromInt(1000)))
	require.Equal(t, "USD", journal.Lines[0].Currency)
	require.True(t, journal.Lines[0].FxRate.Equal(decimal.NewFromInt(1)))
	require.True(t, journal.Lines[0].BaseDebit.Equal(decimal.NewFromInt(1000)))
	require.True(t, journal.Lines[1].BaseCredit.Equal(decimal.NewFromInt(1000)))
}

func TestCreateJournalConvertsToBaseCurrency(t *testing.T) {
	svc, _, companyID := newTestService(t)

	input := balancedInput(companyID)
	input.Lines = []LineInput{
		{AccountID: uuid.New(), Debit: "100.00", Credit: "0", Currency: "EUR", FxRate: "1.5"},
		{AccountID: uuid.New(), Debit: "0", Credit: "100.00", Currency: "EUR", FxRate: "1.5"},
	}
	journal, err := svc.CreateJournalWithLines(context.Background(), input)
	require.NoError(t, err)
	require.True(t, journal.Lines[0].BaseDebit.Equal(decimal.NewFromInt(150)))
	require.True(t, journal.Lines[1].BaseCredit.Equal(decimal.NewFromInt(150)))
	require.True(t, journal.Lines[0].Debit.Equal(decimal.NewFromInt(100)))
}

func TestCreateJournalUnbalancedFailsBeforeAnyWrite(t *testing.T) {
	svc, repo, companyID := newTestService(t)

	input := balancedInput(companyID)
	input.Lines[1].Credit = "900.00"
	_, err := svc.CreateJournalWithLines(context.Background(), input)

	var balErr *posting.BalanceError
	require.ErrorAs(t, err, &balErr)
	require.Zero(t, repo.txCalls, "unbalanced journal must fail before the transaction opens")
	require.Empty(t, repo.journals)
}

func TestCreateJournalEmptyLinesRejected(t *testing.T) {
	svc, _, companyID := newTestService(t)

	input := balancedInput(companyID)
	input.Lines = nil
	_, err := svc.CreateJournalWithLines(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrEmptyJournal)
}

func TestCreateJournalRollsBackWhenLineInsertFails(t *testing.T) {
	svc, repo, companyID := newTestService(t)
	repo.failLineInsert = true

	_, err := svc.CreateJournalWithLines(context.Background(), balancedInput(companyID))
	require.ErrorIs(t, err, errLineInsertFault)
	require.Empty(t, repo.journals, "header must not survive a failed line insert")
	require.Empty(t, repo.lines)
}

func TestReverseJournalEntry(t *testing.T) {
	svc, _, companyID := newTestService(t)

	original, err := svc.CreateJournalWithLines(context.Background(), balancedInput(companyID))
	require.NoError(t, err)

	reversingDate := time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)
	reversal, err := svc.ReverseJournalEntry(context.Background(), original.ID, companyID, reversingDate, "input error")
	require.NoError(t, err)

	require.Equal(t, "REV-"+original.JournalNumber, reversal.JournalNumber)
	require.Equal(t, SourceReversal, reversal.SourceType)
	require.Equal(t, "Reversal: input error", reversal.Description)
	require.NotNil(t, reversal.SourceID)
	require.Equal(t, original.ID, *reversal.SourceID)
	require.Equal(t, reversingDate, reversal.Date)

	require.Len(t, reversal.Lines, len(original.Lines))
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for i, mirrored := range reversal.Lines {
		orig := original.Lines[i]
		require.Equal(t, orig.AccountID, mirrored.AccountID)
		require.True(t, mirrored.Debit.Equal(orig.Credit), "debit must equal original credit")
		require.True(t, mirrored.Credit.Equal(orig.Debit), "credit must equal original debit")
		require.True(t, mirrored.BaseDebit.Equal(orig.BaseCredit))
		require.True(t, mirrored.BaseCredit.Equal(orig.BaseDebit))
		totalDebit = totalDebit.Add(mirrored.BaseDebit)
		totalCredit = totalCredit.Add(mirrored.BaseCredit)
	}
	require.True(t, totalDebit.Equal(totalCredit), "reversal must balance by construction")
}

func TestReverseJournalForeignCompanyNotFound(t *testing.T) {
	svc, _, companyID := newTestService(t)

	original, err := svc.CreateJournalWithLines(context.Background(), balancedInput(companyID))
	require.NoError(t, err)

	_, err = svc.ReverseJournalEntry(context.Background(), original.ID, uuid.New(), time.Now(), "wrong tenant")
	require.ErrorIs(t, err, shared.ErrJournalNotFound)
}

func TestDeleteJournalWithLines(t *testing.T) {
	svc, repo, companyID := newTestService(t)

	journal, err := svc.CreateJournalWithLines(context.Background(), balancedInput(companyID))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteJournalWithLines(context.Background(), companyID, journal.ID))
	require.Empty(t, repo.journals)
	require.Empty(t, repo.lines)

	err = svc.DeleteJournalWithLines(context.Background(), companyID, journal.ID)
	require.ErrorIs(t, err, shared.ErrJournalNotFound)
}
