// Package aging buckets outstanding receivable and payable documents by how
// far past due they are. The builder is pure; ar and ap supply the documents.
package aging

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	KindReceivable = "receivable"
	KindPayable    = "payable"
)

const (
	BucketCurrent = "current"
	Bucket1to30   = "1-30"
	Bucket31to60  = "31-60"
	Bucket61to90  = "61-90"
	BucketOver90  = "over90"
)

// Document is an open invoice or bill as fed into the aging report.
type Document struct {
	ID           uuid.UUID
	Number       string
	ContactID    uuid.UUID
	ContactName  string
	ContactEmail string
	Date         time.Time
	DueDate      time.Time
	Total        decimal.Decimal
	Paid         decimal.Decimal
	Currency     string
}

// Bucket holds outstanding totals per aging band.
type Bucket struct {
	Current    float64 `json:"current"`
	Days1to30  float64 `json:"days1to30"`
	Days31to60 float64 `json:"days31to60"`
	Days61to90 float64 `json:"days61to90"`
	Over90     float64 `json:"over90"`
	Total      float64 `json:"total"`
}

// LineItem is one open document placed into its bucket.
type LineItem struct {
	ID             uuid.UUID `json:"id"`
	DocumentNumber string    `json:"documentNumber"`
	ContactID      uuid.UUID `json:"contactId"`
	ContactName    string    `json:"contactName"`
	Date           time.Time `json:"date"`
	DueDate        time.Time `json:"dueDate"`
	Total          float64   `json:"total"`
	PaidAmount     float64   `json:"paidAmount"`
	BalanceDue     float64   `json:"balanceDue"`
	DaysOverdue    int       `json:"daysOverdue"`
	Bucket         string    `json:"bucket"`
	Currency       string    `json:"currency"`
}

// ContactSummary aggregates one contact's open documents.
type ContactSummary struct {
	ContactID    uuid.UUID  `json:"contactId"`
	ContactName  string     `json:"contactName"`
	ContactEmail string     `json:"contactEmail,omitempty"`
	Bucket
	Items []LineItem `json:"items"`
}

// Report is the full aging statement for one side of the ledger.
type Report struct {
	Type      string           `json:"type"`
	AsOfDate  time.Time        `json:"asOfDate"`
	Summary   Bucket           `json:"summary"`
	ByContact []ContactSummary `json:"byContact"`
}

// BuildReport buckets documents by whole days between due date and asOf.
// Documents with nothing outstanding are skipped; contacts are ordered by
// outstanding total descending.
func BuildReport(kind string, asOf time.Time, docs []Document) Report {
	report := Report{Type: kind, AsOfDate: asOf}
	byContact := make(map[uuid.UUID]*ContactSummary)
	var order []uuid.UUID

	for _, doc := range docs {
		balanceDue := doc.Total.Sub(doc.Paid).InexactFloat64()
		if balanceDue <= 0 {
			continue
		}
		daysOverdue := int(asOf.Sub(doc.DueDate).Hours() / 24)
		bucket := bucketFor(daysOverdue)

		item := LineItem{
			ID:             doc.ID,
			DocumentNumber: doc.Number,
			ContactID:      doc.ContactID,
			ContactName:    doc.ContactName,
			Date:           doc.Date,
			DueDate:        doc.DueDate,
			Total:          doc.Total.InexactFloat64(),
			PaidAmount:     doc.Paid.InexactFloat64(),
			BalanceDue:     balanceDue,
			DaysOverdue:    max(0, daysOverdue),
			Bucket:         bucket,
			Currency:       doc.Currency,
		}

		report.Summary.add(bucket, balanceDue)

		cs, ok := byContact[doc.ContactID]
		if !ok {
			cs = &ContactSummary{ContactID: doc.ContactID, ContactName: doc.ContactName, ContactEmail: doc.ContactEmail}
			byContact[doc.ContactID] = cs
			order = append(order, doc.ContactID)
		}
		cs.add(bucket, balanceDue)
		cs.Items = append(cs.Items, item)
	}

	report.ByContact = make([]ContactSummary, 0, len(order))
	for _, id := range order {
		report.ByContact = append(report.ByContact, *byContact[id])
	}
	sort.SliceStable(report.ByContact, func(i, j int) bool {
		return report.ByContact[i].Total > report.ByContact[j].Total
	})
	return report
}

func bucketFor(daysOverdue int) string {
	switch {
	case daysOverdue <= 0:
		return BucketCurrent
	case daysOverdue <= 30:
		return Bucket1to30
	case daysOverdue <= 60:
		return Bucket31to60
	case daysOverdue <= 90:
		return Bucket61to90
	default:
		return BucketOver90
	}
}

func (b *Bucket) add(bucket string, amount float64) {
	switch bucket {
	case BucketCurrent:
		b.Current += amount
	case Bucket1to30:
		b.Days1to30 += amount
	case Bucket31to60:
		b.Days31to60 += amount
	case Bucket61to90:
		b.Days61to90 += amount
	default:
		b.Over90 += amount
	}
	b.Total += amount
}
