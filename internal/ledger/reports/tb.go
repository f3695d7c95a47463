package reports

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks-hq/openbooks/internal/ledger/accounts"
	"github.com/openbooks-hq/openbooks/internal/ledger/posting"
)

// BuildTrialBalance combines per-account opening balances and period
// activity into the trial balance statement. Accounts with no opening
// balance and no period activity are omitted to keep the statement free of
// noise; closingBalance = openingBalance + debit - credit for every row.
func BuildTrialBalance(accts []accounts.Account, opening map[uuid.UUID]decimal.Decimal, activity map[uuid.UUID]AccountActivity) TrialBalance {
	tb := TrialBalance{}
	for _, acc := range accts {
		open := opening[acc.ID]
		act := activity[acc.ID]
		if isNegligible(open) && isNegligible(act.Debit) && isNegligible(act.Credit) {
			continue
		}
		netMovement := act.Debit.Sub(act.Credit)
		closing := open.Add(netMovement)
		tb.Lines = append(tb.Lines, TrialBalanceLine{
			AccountID:      acc.ID,
			AccountCode:    acc.Code,
			AccountName:    acc.Name,
			AccountType:    acc.Type,
			OpeningBalance: open.InexactFloat64(),
			Debit:          act.Debit.InexactFloat64(),
			Credit:         act.Credit.InexactFloat64(),
			NetMovement:    netMovement.InexactFloat64(),
			ClosingBalance: closing.InexactFloat64(),
		})
		tb.TotalDebit += act.Debit.InexactFloat64()
		tb.TotalCredit += act.Credit.InexactFloat64()
	}
	tb.Difference = tb.TotalDebit - tb.TotalCredit
	tb.Balanced = math.Abs(tb.Difference) < posting.Tolerance
	return tb
}

func isNegligible(d decimal.Decimal) bool {
	return d.Abs().LessThan(decimal.NewFromFloat(posting.Tolerance))
}
