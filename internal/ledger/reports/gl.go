package reports

import (
	"github.com/shopspring/decimal"

	"github.com/openbooks-hq/openbooks/internal/ledger/accounts"
)

// BuildGeneralLedger walks one account's entries in the order the
// repository returns them (journal date, then created_at) accumulating a
// running balance from the opening balance. The balance after the final
// entry is the closing balance and must agree with the trial balance for
// the same account and range.
func BuildGeneralLedger(account accounts.Account, opening decimal.Decimal, entries []LedgerEntry) GeneralLedger {
	gl := GeneralLedger{
		AccountID:      account.ID,
		AccountCode:    account.Code,
		AccountName:    account.Name,
		OpeningBalance: opening.InexactFloat64(),
	}
	running := opening
	for _, e := range entries {
		running = running.Add(e.Debit).Sub(e.Credit)
		gl.Entries = append(gl.Entries, GeneralLedgerEntry{
			ID:            e.LineID,
			Date:          e.Date,
			JournalNumber: e.JournalNumber,
			Description:   e.Description,
			Reference:     e.Reference,
			Debit:         e.Debit.InexactFloat64(),
			Credit:        e.Credit.InexactFloat64(),
			Balance:       running.InexactFloat64(),
		})
	}
	gl.ClosingBalance = running.InexactFloat64()
	return gl
}
