package reports

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks-hq/openbooks/internal/ledger/accounts"
	"github.com/openbooks-hq/openbooks/internal/ledger/posting"
)

// BuildIncomeStatement partitions period activity into revenue (the
// 'income' type counts as revenue), cost of goods sold, and other expenses.
// Accounts with negligible movement in the window are left out.
// gross profit = revenue - COGS; net income = gross profit - expenses.
func BuildIncomeStatement(accts []accounts.Account, activity map[uuid.UUID]AccountActivity) IncomeStatement {
	is := IncomeStatement{}
	totalRevenue, totalCOGS, totalExpenses := decimal.Zero, decimal.Zero, decimal.Zero

	for _, acc := range accts {
		act, ok := activity[acc.ID]
		if !ok {
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
		case accounts.TypeRevenue, accounts.TypeIncome:
			is.Revenue = append(is.Revenue, line)
			totalRevenue = totalRevenue.Add(balance)
		case accounts.TypeCOGS:
			is.CostOfGoodsSold = append(is.CostOfGoodsSold, line)
			totalCOGS = totalCOGS.Add(balance)
		case accounts.TypeExpense:
			is.Expenses = append(is.Expenses, line)
			totalExpenses = totalExpenses.Add(balance)
		}
	}

	grossProfit := totalRevenue.Sub(totalCOGS)
	is.TotalRevenue = totalRevenue.InexactFloat64()
	is.TotalCOGS = totalCOGS.InexactFloat64()
	is.GrossProfit = grossProfit.InexactFloat64()
	is.TotalExpenses = totalExpenses.InexactFloat64()
	is.NetIncome = grossProfit.Sub(totalExpenses).InexactFloat64()
	return is
}
