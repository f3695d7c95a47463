// Package ar manages sales invoices and the receivable side of the ledger.
package ar

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

// Invoice is a sales invoice header. Total and PaidAmount are tracked in the
// invoice currency; settlement state lives in Status.
type Invoice struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"companyId"`
	ContactID     uuid.UUID       `json:"contactId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Date          time.Time       `json:"date"`
	DueDate       time.Time       `json:"dueDate"`
	Currency      string          `json:"currency"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	Lines []DocumentLine `json:"lines,omitempty"`
}

// DocumentLine is one priced line of an invoice. Amount is quantity times
// rate less discount, carried as stated rather than recomputed.
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
func (i Invoice) Outstanding() decimal.Decimal {
	return i.Total.Sub(i.PaidAmount)
}
