package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountActivity is the per-account aggregate of posted base-currency
// amounts over some window. All aggregation happens on base_debit and
// base_credit; fx conversion occurred at posting time, never here.
type AccountActivity struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// LedgerEntry is one posted line joined with its journal header, as listed
// in a general ledger view.
type LedgerEntry struct {
	LineID        uuid.UUID
	Date          time.Time
	CreatedAt     time.Time
	JournalNumber string
	Description   string
	Reference     string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// Repository is the read-side data port for the balance aggregator. All
// reads run outside transactions at default isolation; reports are
// analytical and tolerate eventual consistency with in-flight writes.
type Repository interface {
	// OpeningBalances returns, per account, sum(base_debit - base_credit)
	// over all lines whose journal date is strictly before the given date.
	OpeningBalances(ctx context.Context, companyID uuid.UUID, before time.Time) (map[uuid.UUID]decimal.Decimal, error)

	// Activity returns per-account debit/credit sums over journals dated
	// within the given bounds. A nil bound leaves that side open.
	Activity(ctx context.Context, companyID uuid.UUID, start, end *time.Time) (map[uuid.UUID]AccountActivity, error)

	// AccountOpeningBalance is OpeningBalances narrowed to one account.
	AccountOpeningBalance(ctx context.Context, companyID, accountID uuid.UUID, before time.Time) (decimal.Decimal, error)

	// AccountEntries lists one account's lines in [start, end] ordered by
	// journal date then created_at, preserving same-day insertion order.
	AccountEntries(ctx context.Context, companyID, accountID uuid.UUID, start, end time.Time) ([]LedgerEntry, error)

	// CashPosition sums base_debit - base_credit over accounts with a cash
	// or bank subtype, with no date bound.
	CashPosition(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)
}
