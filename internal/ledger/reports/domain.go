// Package reports derives financial views from committed journal lines.
// Every report is a stateless, read-only projection over the balance
// aggregator; nothing here mutates the ledger.
package reports

import (
	"time"

	"github.com/google/uuid"
)

// TrialBalanceLine is the per-account row of a trial balance: opening
// balance, period activity, and closing balance over a date range.
type TrialBalanceLine struct {
	AccountID      uuid.UUID `json:"accountId"`
	AccountCode    string    `json:"accountCode"`
	AccountName    string    `json:"accountName"`
	AccountType    string    `json:"accountType"`
	OpeningBalance float64   `json:"openingBalance"`
	Debit          float64   `json:"debit"`
	Credit         float64   `json:"credit"`
	NetMovement    float64   `json:"netMovement"`
	ClosingBalance float64   `json:"closingBalance"`
}

// TrialBalance is the full statement with totals and the balance check.
type TrialBalance struct {
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  float64            `json:"totalDebit"`
	TotalCredit float64            `json:"totalCredit"`
	Balanced    bool               `json:"balanced"`
	Difference  float64            `json:"difference"`
}

// GeneralLedgerEntry is one posted line against an account with the running
// balance after it.
type GeneralLedgerEntry struct {
	ID            uuid.UUID `json:"id"`
	Date          time.Time `json:"date"`
	JournalNumber string    `json:"journalNumber"`
	Description   string    `json:"description"`
	Reference     string    `json:"reference"`
	Debit         float64   `json:"debit"`
	Credit        float64   `json:"credit"`
	Balance       float64   `json:"balance"`
}

// GeneralLedger lists one account's entries in strict chronological order,
// same-day entries by insertion order, from opening to closing balance.
type GeneralLedger struct {
	AccountID      uuid.UUID            `json:"accountId"`
	AccountCode    string               `json:"accountCode"`
	AccountName    string               `json:"accountName"`
	OpeningBalance float64              `json:"openingBalance"`
	Entries        []GeneralLedgerEntry `json:"lines"`
	ClosingBalance float64              `json:"closingBalance"`
}

// FinancialStatementLine is a single account's signed balance inside an
// income statement or balance sheet section.
type FinancialStatementLine struct {
	AccountID      uuid.UUID `json:"accountId"`
	AccountCode    string    `json:"accountCode"`
	AccountName    string    `json:"accountName"`
	AccountType    string    `json:"accountType"`
	AccountSubtype string    `json:"accountSubtype"`
	Balance        float64   `json:"balance"`
}

// IncomeStatement partitions period activity into revenue, cost of goods
// sold, and other expenses.
type IncomeStatement struct {
	Revenue         []FinancialStatementLine `json:"revenue"`
	CostOfGoodsSold []FinancialStatementLine `json:"costOfGoodsSold"`
	Expenses        []FinancialStatementLine `json:"expenses"`
	TotalRevenue    float64                  `json:"totalRevenue"`
	TotalCOGS       float64                  `json:"totalCostOfGoodsSold"`
	GrossProfit     float64                  `json:"grossProfit"`
	TotalExpenses   float64                  `json:"totalExpenses"`
	NetIncome       float64                  `json:"netIncome"`
}

// BalanceSheetTotals carries the section totals of a balance sheet.
type BalanceSheetTotals struct {
	Assets      float64 `json:"assets"`
	Liabilities float64 `json:"liabilities"`
	Equity      float64 `json:"equity"`
}

// BalanceSheet is the cumulative position through an as-of date. Equity
// includes a synthetic "Retained Earnings (Calculated)" line so the
// statement balances without a closing process.
type BalanceSheet struct {
	AsOfDate    time.Time                `json:"asOfDate"`
	Assets      []FinancialStatementLine `json:"assets"`
	Liabilities []FinancialStatementLine `json:"liabilities"`
	Equity      []FinancialStatementLine `json:"equity"`
	Totals      BalanceSheetTotals       `json:"totals"`
	Balanced    bool                     `json:"balanced"`
}

// ConsolidatedLine is a balance-sheet line merged across the consolidation
// group by account code.
type ConsolidatedLine struct {
	AccountCode    string  `json:"accountCode"`
	AccountName    string  `json:"accountName"`
	AccountType    string  `json:"accountType"`
	AccountSubtype string  `json:"accountSubtype"`
	Balance        float64 `json:"balance"`
}

// ConsolidatedBalanceSheet aggregates the balance sheets of a parent and its
// direct subsidiaries. Inter-company elimination entries are NOT applied;
// group totals may be overstated when inter-company balances exist. That is
// a documented limitation, not something to fix silently here.
type ConsolidatedBalanceSheet struct {
	AsOfDate    time.Time          `json:"asOfDate"`
	Assets      []ConsolidatedLine `json:"assets"`
	Liabilities []ConsolidatedLine `json:"liabilities"`
	Equity      []ConsolidatedLine `json:"equity"`
	Totals      BalanceSheetTotals `json:"totals"`
	Companies   []string           `json:"companies"`
}

// CompanyStats is one company's slice of the global dashboard.
type CompanyStats struct {
	CompanyID uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Cash      float64   `json:"cash"`
	Revenue   float64   `json:"revenue"`
	Expenses  float64   `json:"expenses"`
	NetIncome float64   `json:"netIncome"`
}

// DashboardTotals sums the stats across the consolidation group.
type DashboardTotals struct {
	Cash      float64 `json:"cash"`
	Revenue   float64 `json:"revenue"`
	Expenses  float64 `json:"expenses"`
	NetIncome float64 `json:"netIncome"`
}

// Dashboard is the group-wide overview: per-company cash position and
// year-to-date income, with group totals.
type Dashboard struct {
	Totals    DashboardTotals `json:"totals"`
	Companies []CompanyStats  `json:"companies"`
}

// AccountBalanceRow is the raw signed-balance view over an optional date
// range, the lowest-level aggregate exposed to callers.
type AccountBalanceRow struct {
	AccountID      uuid.UUID  `json:"accountId"`
	AccountCode    string     `json:"accountCode"`
	AccountName    string     `json:"accountName"`
	AccountType    string     `json:"accountType"`
	AccountSubtype string     `json:"accountSubtype"`
	ParentID       *uuid.UUID `json:"parentId"`
	Debit          float64    `json:"debit"`
	Credit         float64    `json:"credit"`
	Balance        float64    `json:"balance"`
}
