package journals

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks-hq/openbooks/internal/ledger/posting"
	"github.com/openbooks-hq/openbooks/internal/ledger/shared"
)

// LineInput describes one journal line as supplied by a caller. Amounts are
// decimal strings; the original string is what gets persisted, float
// arithmetic is only ever transient validation.
type LineInput struct {
	AccountID    uuid.UUID
	Description  string
	Debit        string
	Credit       string
	Currency     string
	FxRate       string
	ProjectID    *uuid.UUID
	CostCenterID *uuid.UUID
}

// PostingInput groups the fields required to create a journal with lines.
type PostingInput struct {
	CompanyID     uuid.UUID
	JournalNumber string
	Date          time.Time
	Description   string
	Reference     string
	SourceType    string
	SourceID      *uuid.UUID
	CreatedBy     *uuid.UUID
	Lines         []LineInput
}

// Validate ensures the posting meets minimum structural criteria. The
// double-entry balance check itself lives in the posting package and runs
// separately so every write path shares it.
func (in PostingInput) Validate() error {
	if in.CompanyID == uuid.Nil {
		return errors.New("ledger: company required")
	}
	if strings.TrimSpace(in.JournalNumber) == "" {
		return errors.New("ledger: journal number required")
	}
	if in.Date.IsZero() {
		return errors.New("ledger: journal date required")
	}
	if len(in.Lines) == 0 {
		return shared.ErrEmptyJournal
	}
	for idx, line := range in.Lines {
		if line.AccountID == uuid.Nil {
			return fmt.Errorf("ledger: line %d missing account", idx)
		}
		if amountOf(line.Debit).IsNegative() || amountOf(line.Credit).IsNegative() {
			return shared.ErrNegativeAmount
		}
	}
	return nil
}

// LineAmounts adapts the input lines for the double-entry validator.
func (in PostingInput) LineAmounts() []posting.LineAmount {
	amounts := make([]posting.LineAmount, 0, len(in.Lines))
	for _, line := range in.Lines {
		amounts = append(amounts, posting.LineAmount{Debit: line.Debit, Credit: line.Credit})
	}
	return amounts
}

// BuildLines converts the string-encoded inputs into persistable lines,
// defaulting currency to the company base currency and fx rate to 1, and
// computing the base-currency amounts at the posting moment.
func (in PostingInput) BuildLines(baseCurrency string) []JournalLine {
	lines := make([]JournalLine, 0, len(in.Lines))
	for _, input := range in.Lines {
		currency := input.Currency
		if currency == "" {
			currency = baseCurrency
		}
		fxRate := amountOf(input.FxRate)
		if fxRate.IsZero() {
			fxRate = decimal.NewFromInt(1)
		}
		debit := amountOf(input.Debit)
		credit := amountOf(input.Credit)
		lines = append(lines, JournalLine{
			AccountID:    input.AccountID,
			Description:  input.Description,
			Debit:        debit,
			Credit:       credit,
			Currency:     currency,
			FxRate:       fxRate,
			BaseDebit:    debit.Mul(fxRate).Round(2),
			BaseCredit:   credit.Mul(fxRate).Round(2),
			ProjectID:    input.ProjectID,
			CostCenterID: input.CostCenterID,
		})
	}
	return lines
}

// amountOf parses a decimal string, treating blank or malformed values as
// zero in line with how omitted debit/credit sides arrive.
func amountOf(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
