// Package ap manages supplier bills and the payable side of the ledger.
package ap

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusPartial   = "partial"
	StatusOverdue   = "overdue"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Bill is a supplier bill header, the payable counterpart of a sales
// invoice.
type Bill struct {
	ID         uuid.UUID       `json:"id"`
	CompanyID  uuid.UUID       `json:"companyId"`
	ContactID  uuid.UUID       `json:"contactId"`
	BillNumber string          `json:"billNumber"`
	Date       time.Time       `json:"date"`
	DueDate    time.Time       `json:"dueDate"`
	Currency   string          `json:"currency"`
	Total      decimal.Decimal `json:"total"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	Status     string          `json:"status"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`

	Lines []DocumentLine `json:"lines,omitempty"`
}

// DocumentLine is one priced line of a bill.
type DocumentLine struct {
	ID          uuid.UUID       `json:"id"`
	DocumentID  uuid.UUID       `json:"documentId"`
	LineNumber  int             `json:"lineNumber"`
	ItemID      *uuid.UUID      `json:"itemId,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Discount    decimal.Decimal `json:"discount"`
	Amount      decimal.Decimal `json:"amount"`
}

// Outstanding is the unsettled remainder.
func (b Bill) Outstanding() decimal.Decimal {
	return b.Total.Sub(b.PaidAmount)
}
