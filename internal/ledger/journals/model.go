package journals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceType values carried on journal headers.
const (
	SourceManual   = "manual"
	SourceInvoice  = "invoice"
	SourceBill     = "bill"
	SourcePayment  = "payment"
	SourceReversal = "reversal"
)

// Journal is one atomic accounting event: a header grouping balanced
// debit/credit lines. Journals are immutable once posted; corrections happen
// through reversing journals, never by mutating history.
type Journal struct {
	ID            uuid.UUID
	CompanyID     uuid.UUID
	JournalNumber string
	Date          time.Time
	Description   string
	Reference     string
	SourceType    string
	SourceID      *uuid.UUID
	TotalAmount   decimal.Decimal
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Lines         []JournalLine
}

// JournalLine is a single debit or credit against one account. A line is
// owned by exactly one journal and is deleted with it. BaseDebit/BaseCredit
// hold the amounts converted to the company base currency at posting time;
// reports only ever aggregate the base amounts.
type JournalLine struct {
	ID           uuid.UUID
	JournalID    uuid.UUID
	AccountID    uuid.UUID
	Description  string
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	Currency     string
	FxRate       decimal.Decimal
	BaseDebit    decimal.Decimal
	BaseCredit   decimal.Decimal
	ProjectID    *uuid.UUID
	CostCenterID *uuid.UUID
}
