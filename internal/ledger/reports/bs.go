package reports

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks-hq/openbooks/internal/ledger/accounts"
	"github.com/openbooks-hq/openbooks/internal/ledger/posting"
)

// BuildBalanceSheet shapes cumulative activity (inception through the as-of
// date) into asset, liability, and equity sections. Profit-and-loss
// accounts are folded into a synthetic "Retained Earnings (Calculated)"
// equity line, which is what makes the statement balance without a period
// close process.
func BuildBalanceSheet(asOf time.Time, accts []accounts.Account, activity map[uuid.UUID]AccountActivity) BalanceSheet {
	bs := BalanceSheet{AsOfDate: asOf}
	totalAssets, totalLiabilities, totalEquity := decimal.Zero, decimal.Zero, decimal.Zero
	retainedEarnings := decimal.Zero

	for _, acc := range accts {
		act, ok := activity[acc.ID]
		if !ok {
			continue
		}
		switch acc.Type {
		case accounts.TypeRevenue, accounts.TypeIncome, accounts.TypeExpense, accounts.TypeCOGS:
			// Net credit balance of P&L accounts accrues to equity.
			retainedEarnings = retainedEarnings.Add(act.Credit.Sub(act.Debit))
			continue
		}
		balance := posting.SignedBalance(acc.Type, act.Debit, act.Credit)
		if isNegligible(balance) {
			continue
		}
		line := FinancialStatementLine{
			AccountID:      acc.ID,
			AccountCode:    acc.Code,
			AccountName:    acc.Name,
			AccountType:    acc.Type,
			AccountSubtype: acc.Subtype,
			Balance:        balance.InexactFloat64(),
		}
		switch acc.Type {
		case accounts.TypeAsset:
			bs.Assets = append(bs.Assets, line)
			totalAssets = totalAssets.Add(balance)
		case accounts.TypeLiability:
			bs.Liabilities = append(bs.Liabilities, line)
			totalLiabilities = totalLiabilities.Add(balance)
		case accounts.TypeEquity:
			bs.Equity = append(bs.Equity, line)
			totalEquity = totalEquity.Add(balance)
		}
	}

	if !isNegligible(retainedEarnings) {
		bs.Equity = append(bs.Equity, FinancialStatementLine{
			AccountID:      uuid.Nil,
			AccountCode:    "RE",
			AccountName:    "Retained Earnings (Calculated)",
			AccountType:    accounts.TypeEquity,
			AccountSubtype: "retained_earnings",
			Balance:        retainedEarnings.InexactFloat64(),
		})
		totalEquity = totalEquity.Add(retainedEarnings)
	}

	bs.Totals = BalanceSheetTotals{
		Assets:      totalAssets.InexactFloat64(),
		Liabilities: totalLiabilities.InexactFloat64(),
		Equity:      totalEquity.InexactFloat64(),
	}
	bs.Balanced = math.Abs(bs.Totals.Assets-(bs.Totals.Liabilities+bs.Totals.Equity)) < posting.Tolerance
	return bs
}
