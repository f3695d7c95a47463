package ap

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/openbooks-hq/openbooks/internal/ledger/aging"
	"github.com/openbooks-hq/openbooks/internal/ledger/shared"
)

type memoryRepo struct {
	bills          map[uuid.UUID]Bill
	lines          map[uuid.UUID][]DocumentLine
	contacts       map[uuid.UUID]string
	failLineInsert bool
	txCalls        int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		bills:    make(map[uuid.UUID]Bill),
		lines:    make(map[uuid.UUID][]DocumentLine),
		contacts: make(map[uuid.UUID]string),
	}
}

func (m *memoryRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]Bill, error) {
	var out []Bill
	for _, b := range m.bills {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetWithLines(_ context.Context, companyID, billID uuid.UUID) (Bill, error) {
	b, ok := m.bills[billID]
	if !ok || b.CompanyID != companyID {
		return Bill{}, shared.ErrBillNotFound
	}
	b.Lines = m.lines[billID]
	return b, nil
}

func (m *memoryRepo) ListOutstanding(_ context.Context, companyID uuid.UUID) ([]aging.Document, error) {
	var docs []aging.Document
	for _, b := range m.bills {
		if b.CompanyID != companyID || b.Status == StatusPaid || b.Status == StatusCancelled {
			continue
		}
		if !b.Outstanding().IsPositive() {
			continue
		}
		docs = append(docs, aging.Document{
			ID:          b.ID,
			Number:      b.BillNumber,
			ContactID:   b.ContactID,
			ContactName: m.contacts[b.ContactID],
			Date:        b.Date,
			DueDate:     b.DueDate,
			Total:       b.Total,
			Paid:        b.PaidAmount,
			Currency:    b.Currency,
		})
	}
	return docs, nil
}

func (m *memoryRepo) WithTx(_ context.Context, fn func(context.Context, TxRepository) error) error {
	m.txCalls++
	billsSnap := make(map[uuid.UUID]Bill, len(m.bills))
	for k, v := range m.bills {
		billsSnap[k] = v
	}
	linesSnap := make(map[uuid.UUID][]DocumentLine, len(m.lines))
	for k, v := range m.lines {
		linesSnap[k] = append([]DocumentLine(nil), v...)
	}
	if err := fn(context.Background(), &memoryTx{repo: m}); err != nil {
		m.bills = billsSnap
		m.lines = linesSnap
		return err
	}
	return nil
}

type memoryTx struct {
	repo *memoryRepo
}

func (t *memoryTx) InsertBill(_ context.Context, b Bill) (Bill, error) {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	b.Lines = nil
	t.repo.bills[b.ID] = b
	return b, nil
}

func (t *memoryTx) InsertLines(_ context.Context, documentID uuid.UUID, lines []DocumentLine) error {
	if t.repo.failLineInsert {
		return errors.New("line insert failed")
	}
	for i, line := range lines {
		line.ID = uuid.New()
		line.DocumentID = documentID
		line.LineNumber = i + 1
		t.repo.lines[documentID] = append(t.repo.lines[documentID], line)
	}
	return nil
}

func (t *memoryTx) DeleteLines(_ context.Context, documentID uuid.UUID) error {
	delete(t.repo.lines, documentID)
	return nil
}

func (t *memoryTx) DeleteBill(_ context.Context, companyID, billID uuid.UUID) error {
	b, ok := t.repo.bills[billID]
	if !ok || b.CompanyID != companyID {
		return shared.ErrBillNotFound
	}
	delete(t.repo.bills, billID)
	return nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func validInput(companyID, contactID uuid.UUID) BillInput {
	return BillInput{
		CompanyID:  companyID,
		ContactID:  contactID,
		BillNumber: "BILL-001",
		Date:       time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC),
		Currency:   "USD",
		Lines: []LineInput{
			{Description: "Raw materials", Quantity: dec("20"), Rate: dec("30"), Amount: dec("600")},
			{Description: "Freight", Quantity: dec("1"), Rate: dec("80"), Amount: dec("80")},
		},
	}
}

func TestCreateBillWithLines(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, slog.Default())
	companyID, contactID := uuid.New(), uuid.New()

	bill, err := service.CreateBillWithLines(context.Background(), validInput(companyID, contactID))
	require.NoError(t, err)

	require.Equal(t, StatusDraft, bill.Status)
	require.True(t, bill.Total.Equal(dec("680")))
	require.True(t, bill.PaidAmount.IsZero())
	require.Len(t, repo.lines[bill.ID], 2)
}

func TestCreateBillEmptyLinesRejected(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, slog.Default())
	input := validInput(uuid.New(), uuid.New())
	input.Lines = nil

	_, err := service.CreateBillWithLines(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrEmptyDocument)
	require.Zero(t, repo.txCalls)
}

func TestCreateBillRollsBackWhenLineInsertFails(t *testing.T) {
	repo := newMemoryRepo()
	repo.failLineInsert = true
	service := NewService(repo, slog.Default())

	_, err := service.CreateBillWithLines(context.Background(), validInput(uuid.New(), uuid.New()))
	require.Error(t, err)
	require.Empty(t, repo.bills)
	require.Empty(t, repo.lines)
}

func TestDeleteBillWithRelated(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, slog.Default())
	companyID := uuid.New()

	bill, err := service.CreateBillWithLines(context.Background(), validInput(companyID, uuid.New()))
	require.NoError(t, err)

	require.NoError(t, service.DeleteBillWithRelated(context.Background(), companyID, bill.ID))
	require.Empty(t, repo.bills)
	require.Empty(t, repo.lines)
}

func TestPayableAgingReport(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo, slog.Default())
	companyID, contactID := uuid.New(), uuid.New()
	repo.contacts[contactID] = "Initech Supplies"
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	id := uuid.New()
	repo.bills[id] = Bill{
		ID:         id,
		CompanyID:  companyID,
		ContactID:  contactID,
		BillNumber: "BILL-007",
		DueDate:    asOf.AddDate(0, 0, -95),
		Total:      dec("800"),
		PaidAmount: dec("300"),
		Status:     StatusOverdue,
		Currency:   "USD",
	}

	report, err := service.AgingReport(context.Background(), companyID, asOf)
	require.NoError(t, err)

	require.Equal(t, aging.KindPayable, report.Type)
	require.InDelta(t, 500.0, report.Summary.Over90, 1e-9)
	require.InDelta(t, 500.0, report.Summary.Total, 1e-9)
	require.Equal(t, "Initech Supplies", report.ByContact[0].ContactName)
	require.Equal(t, 95, report.ByContact[0].Items[0].DaysOverdue)
}
