package aging

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestBuildReportBuckets(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	contact := uuid.New()
	due := func(daysAgo int) time.Time { return asOf.AddDate(0, 0, -daysAgo) }

	docs := []Document{
		{ID: uuid.New(), Number: "INV-001", ContactID: contact, ContactName: "Globex", DueDate: due(-10), Total: dec("100"), Currency: "USD"},
		{ID: uuid.New(), Number: "INV-002", ContactID: contact, ContactName: "Globex", DueDate: due(15), Total: dec("200"), Currency: "USD"},
		{ID: uuid.New(), Number: "INV-003", ContactID: contact, ContactName: "Globex", DueDate: due(45), Total: dec("300"), Currency: "USD"},
		{ID: uuid.New(), Number: "INV-004", ContactID: contact, ContactName: "Globex", DueDate: due(75), Total: dec("400"), Currency: "USD"},
		{ID: uuid.New(), Number: "INV-005", ContactID: contact, ContactName: "Globex", DueDate: due(120), Total: dec("500"), Currency: "USD"},
	}

	report := BuildReport(KindReceivable, asOf, docs)

	require.Equal(t, KindReceivable, report.Type)
	require.InDelta(t, 100.0, report.Summary.Current, 1e-9)
	require.InDelta(t, 200.0, report.Summary.Days1to30, 1e-9)
	require.InDelta(t, 300.0, report.Summary.Days31to60, 1e-9)
	require.InDelta(t, 400.0, report.Summary.Days61to90, 1e-9)
	require.InDelta(t, 500.0, report.Summary.Over90, 1e-9)
	require.InDelta(t, 1500.0, report.Summary.Total, 1e-9)

	require.Len(t, report.ByContact, 1)
	require.Len(t, report.ByContact[0].Items, 5)
	require.Equal(t, BucketCurrent, report.ByContact[0].Items[0].Bucket)
	require.Equal(t, 0, report.ByContact[0].Items[0].DaysOverdue)
	require.Equal(t, BucketOver90, report.ByContact[0].Items[4].Bucket)
	require.Equal(t, 120, report.ByContact[0].Items[4].DaysOverdue)
}

func TestBuildReportSkipsSettledDocuments(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	docs := []Document{
		{ID: uuid.New(), Number: "INV-001", ContactID: uuid.New(), ContactName: "Globex", DueDate: asOf, Total: dec("100"), Paid: dec("100")},
		{ID: uuid.New(), Number: "INV-002", ContactID: uuid.New(), ContactName: "Initech", DueDate: asOf, Total: dec("100"), Paid: dec("40")},
	}

	report := BuildReport(KindPayable, asOf, docs)

	require.Len(t, report.ByContact, 1)
	require.Equal(t, "Initech", report.ByContact[0].ContactName)
	require.InDelta(t, 60.0, report.Summary.Total, 1e-9)
}

func TestBuildReportOrdersContactsByTotalDesc(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	small, large := uuid.New(), uuid.New()

	docs := []Document{
		{ID: uuid.New(), Number: "INV-001", ContactID: small, ContactName: "Small Shop", DueDate: asOf.AddDate(0, 0, -5), Total: dec("50")},
		{ID: uuid.New(), Number: "INV-002", ContactID: large, ContactName: "Big Corp", DueDate: asOf.AddDate(0, 0, -5), Total: dec("900")},
		{ID: uuid.New(), Number: "INV-003", ContactID: large, ContactName: "Big Corp", DueDate: asOf.AddDate(0, 0, -40), Total: dec("100")},
	}

	report := BuildReport(KindReceivable, asOf, docs)

	require.Len(t, report.ByContact, 2)
	require.Equal(t, "Big Corp", report.ByContact[0].ContactName)
	require.InDelta(t, 1000.0, report.ByContact[0].Total, 1e-9)
	require.InDelta(t, 900.0, report.ByContact[0].Days1to30, 1e-9)
	require.InDelta(t, 100.0, report.ByContact[0].Days31to60, 1e-9)
	require.Equal(t, "Small Shop", report.ByContact[1].ContactName)
}
