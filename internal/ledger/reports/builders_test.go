package reports

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/openbooks-hq/openbooks/internal/ledger/accounts"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func acct(code, name, typ, subtype string) accounts.Account {
	return accounts.Account{ID: uuid.New(), Code: code, Name: name, Type: typ, Subtype: subtype, IsActive: true}
}

func TestBuildTrialBalanceOmitsIdleAccounts(t *testing.T) {
	cash := acct("1000", "Cash", accounts.TypeAsset, "cash")
	revenue := acct("4000", "Revenue", accounts.TypeRevenue, "sales")
	idle := acct("1500", "Equipment", accounts.TypeAsset, "fixed_asset")

	opening := map[uuid.UUID]decimal.Decimal{cash.ID: dec("250")}
	activity := map[uuid.UUID]AccountActivity{
		cash.ID:    {Debit: dec("1000"), Credit: dec("300")},
		revenue.ID: {Credit: dec("1000")},
	}

	tb := BuildTrialBalance([]accounts.Account{cash, idle, revenue}, opening, activity)

	require.Len(t, tb.Lines, 2)
	require.Equal(t, "1000", tb.Lines[0].AccountCode)
	require.InDelta(t, 250.0, tb.Lines[0].OpeningBalance, 1e-9)
	require.InDelta(t, 700.0, tb.Lines[0].NetMovement, 1e-9)
	require.InDelta(t, 950.0, tb.Lines[0].ClosingBalance, 1e-9)
	require.InDelta(t, -1000.0, tb.Lines[1].ClosingBalance, 1e-9)
	require.InDelta(t, 1000.0, tb.TotalDebit, 1e-9)
	require.InDelta(t, 1300.0, tb.TotalCredit, 1e-9)
	require.False(t, tb.Balanced)
	require.InDelta(t, -300.0, tb.Difference, 1e-9)
}

func TestBuildTrialBalanceBalancedWithinTolerance(t *testing.T) {
	cash := acct("1000", "Cash", accounts.TypeAsset, "cash")
	revenue := acct("4000", "Revenue", accounts.TypeRevenue, "sales")
	activity := map[uuid.UUID]AccountActivity{
		cash.ID:    {Debit: dec("100.005")},
		revenue.ID: {Credit: dec("100.00")},
	}

	tb := BuildTrialBalance([]accounts.Account{cash, revenue}, nil, activity)

	require.True(t, tb.Balanced)
	require.InDelta(t, 0.005, tb.Difference, 1e-9)
}

func TestBuildGeneralLedgerRunningBalance(t *testing.T) {
	cash := acct("1000", "Cash", accounts.TypeAsset, "cash")
	jan5 := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	jan20 := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	gl := BuildGeneralLedger(cash, dec("0"), []LedgerEntry{
		{LineID: uuid.New(), Date: jan5, JournalNumber: "JE-001", Debit: dec("1000"), Credit: decimal.Zero},
		{LineID: uuid.New(), Date: jan20, JournalNumber: "JE-002", Debit: decimal.Zero, Credit: dec("300")},
	})

	require.Equal(t, cash.ID, gl.AccountID)
	require.InDelta(t, 0.0, gl.OpeningBalance, 1e-9)
	require.Len(t, gl.Entries, 2)
	require.InDelta(t, 1000.0, gl.Entries[0].Balance, 1e-9)
	require.InDelta(t, 700.0, gl.Entries[1].Balance, 1e-9)
	require.InDelta(t, 700.0, gl.ClosingBalance, 1e-9)
}

func TestBuildIncomeStatementGrossProfit(t *testing.T) {
	revenue := acct("4000", "Sales", accounts.TypeRevenue, "sales")
	interest := acct("4900", "Interest Income", accounts.TypeIncome, "other_income")
	cogs := acct("5000", "Cost of Sales", accounts.TypeCOGS, "cogs")
	rent := acct("6000", "Rent", accounts.TypeExpense, "operating")
	tiny := acct("6100", "Rounding", accounts.TypeExpense, "operating")

	activity := map[uuid.UUID]AccountActivity{
		revenue.ID:  {Credit: dec("1000")},
		interest.ID: {Credit: dec("50")},
		cogs.ID:     {Debit: dec("400")},
		rent.ID:     {Debit: dec("300")},
		tiny.ID:     {Debit: dec("0.005")},
	}

	is := BuildIncomeStatement([]accounts.Account{revenue, interest, cogs, rent, tiny}, activity)

	require.Len(t, is.Revenue, 2)
	require.Len(t, is.CostOfGoodsSold, 1)
	require.Len(t, is.Expenses, 1)
	require.InDelta(t, 1050.0, is.TotalRevenue, 1e-9)
	require.InDelta(t, 400.0, is.TotalCOGS, 1e-9)
	require.InDelta(t, 650.0, is.GrossProfit, 1e-9)
	require.InDelta(t, 300.0, is.TotalExpenses, 1e-9)
	require.InDelta(t, 350.0, is.NetIncome, 1e-9)
}

func TestBuildBalanceSheetRetainedEarnings(t *testing.T) {
	cash := acct("1000", "Cash", accounts.TypeAsset, "cash")
	loan := acct("2000", "Bank Loan", accounts.TypeLiability, "loan")
	capital := acct("3000", "Share Capital", accounts.TypeEquity, "capital")
	revenue := acct("4000", "Sales", accounts.TypeRevenue, "sales")
	rent := acct("6000", "Rent", accounts.TypeExpense, "operating")
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	activity := map[uuid.UUID]AccountActivity{
		cash.ID:    {Debit: dec("1700"), Credit: dec("300")},
		loan.ID:    {Credit: dec("500")},
		capital.ID: {Credit: dec("200")},
		revenue.ID: {Credit: dec("1000")},
		rent.ID:    {Debit: dec("300")},
	}

	bs := BuildBalanceSheet(asOf, []accounts.Account{cash, loan, capital, revenue, rent}, activity)

	require.InDelta(t, 1400.0, bs.Totals.Assets, 1e-9)
	require.InDelta(t, 500.0, bs.Totals.Liabilities, 1e-9)
	require.InDelta(t, 900.0, bs.Totals.Equity, 1e-9)
	require.True(t, bs.Balanced)

	last := bs.Equity[len(bs.Equity)-1]
	require.Equal(t, "Retained Earnings (Calculated)", last.AccountName)
	require.Equal(t, uuid.Nil, last.AccountID)
	require.InDelta(t, 700.0, last.Balance, 1e-9)
}

func TestBuildBalanceSheetSkipsZeroRetainedEarnings(t *testing.T) {
	cash := acct("1000", "Cash", accounts.TypeAsset, "cash")
	capital := acct("3000", "Share Capital", accounts.TypeEquity, "capital")
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	activity := map[uuid.UUID]AccountActivity{
		cash.ID:    {Debit: dec("200")},
		capital.ID: {Credit: dec("200")},
	}

	bs := BuildBalanceSheet(asOf, []accounts.Account{cash, capital}, activity)

	require.Len(t, bs.Equity, 1)
	require.True(t, bs.Balanced)
}

func TestMergeBalanceSheetsByAccountCode(t *testing.T) {
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	parent := CompanyBalanceSheet{
		CompanyName: "Parent Co",
		Sheet: BalanceSheet{
			Assets: []FinancialStatementLine{
				{AccountCode: "1000", AccountName: "Cash", AccountType: accounts.TypeAsset, Balance: 700},
			},
			Equity: []FinancialStatementLine{
				{AccountCode: "RE", AccountName: "Retained Earnings (Calculated)", AccountType: accounts.TypeEquity, Balance: 700},
			},
		},
	}
	sub := CompanyBalanceSheet{
		CompanyName: "Sub Co",
		Sheet: BalanceSheet{
			Assets: []FinancialStatementLine{
				{AccountCode: "1000", AccountName: "Cash", AccountType: accounts.TypeAsset, Balance: 300},
				{AccountCode: "1200", AccountName: "Receivables", AccountType: accounts.TypeAsset, Balance: 100},
			},
			Liabilities: []FinancialStatementLine{
				{AccountCode: "2000", AccountName: "Loan", AccountType: accounts.TypeLiability, Balance: 400},
			},
		},
	}

	cbs := MergeBalanceSheets(asOf, []CompanyBalanceSheet{parent, sub})

	require.Equal(t, []string{"Parent Co", "Sub Co"}, cbs.Companies)
	require.Len(t, cbs.Assets, 2)
	require.Equal(t, "1000", cbs.Assets[0].AccountCode)
	require.InDelta(t, 1000.0, cbs.Assets[0].Balance, 1e-9)
	require.InDelta(t, 100.0, cbs.Assets[1].Balance, 1e-9)
	require.InDelta(t, 1100.0, cbs.Totals.Assets, 1e-9)
	require.InDelta(t, 400.0, cbs.Totals.Liabilities, 1e-9)
	require.InDelta(t, 700.0, cbs.Totals.Equity, 1e-9)
}

func TestBuildDashboardTotals(t *testing.T) {
	stats := []CompanyStats{
		{Name: "Parent Co", Cash: 700, Revenue: 1000, Expenses: 300, NetIncome: 700},
		{Name: "Sub Co", Cash: 50, Revenue: 200, Expenses: 250, NetIncome: -50},
	}

	d := BuildDashboard(stats)

	require.InDelta(t, 750.0, d.Totals.Cash, 1e-9)
	require.InDelta(t, 1200.0, d.Totals.Revenue, 1e-9)
	require.InDelta(t, 550.0, d.Totals.Expenses, 1e-9)
	require.InDelta(t, 650.0, d.Totals.NetIncome, 1e-9)
	require.Len(t, d.Companies, 2)
}
