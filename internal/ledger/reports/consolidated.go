package reports

import (
	"sort"
	"time"
)

// CompanyBalanceSheet pairs a company name with its standalone balance
// sheet for consolidation.
type CompanyBalanceSheet struct {
	CompanyName string
	Sheet       BalanceSheet
}

// MergeBalanceSheets folds per-company balance sheets into a consolidated
// statement, merging line items by account code (not account ID, since each
// company owns its own chart). Inter-company eliminations are deliberately
// not applied here.
func MergeBalanceSheets(asOf time.Time, sheets []CompanyBalanceSheet) ConsolidatedBalanceSheet {
	out := ConsolidatedBalanceSheet{AsOfDate: asOf}
	assets := newCodeMerger()
	liabilities := newCodeMerger()
	equity := newCodeMerger()

	for _, cs := range sheets {
		out.Companies = append(out.Companies, cs.CompanyName)
		for _, line := range cs.Sheet.Assets {
			assets.add(line, cs.CompanyName)
			out.Totals.Assets += line.Balance
		}
		for _, line := range cs.Sheet.Liabilities {
			liabilities.add(line, cs.CompanyName)
			out.Totals.Liabilities += line.Balance
		}
		for _, line := range cs.Sheet.Equity {
			equity.add(line, cs.CompanyName)
			out.Totals.Equity += line.Balance
		}
	}

	out.Assets = assets.lines()
	out.Liabilities = liabilities.lines()
	out.Equity = equity.lines()
	return out
}

type codeMerger struct {
	byCode map[string]*ConsolidatedLine
	order  []string
}

func newCodeMerger() *codeMerger {
	return &codeMerger{byCode: make(map[string]*ConsolidatedLine)}
}

func (m *codeMerger) add(line FinancialStatementLine, companyName string) {
	if existing, ok := m.byCode[line.AccountCode]; ok {
		existing.Balance += line.Balance
		return
	}
	m.byCode[line.AccountCode] = &ConsolidatedLine{
		AccountCode:    line.AccountCode,
		AccountName:    line.AccountName + " (" + companyName + ")",
		AccountType:    line.AccountType,
		AccountSubtype: line.AccountSubtype,
		Balance:        line.Balance,
	}
	m.order = append(m.order, line.AccountCode)
}

func (m *codeMerger) lines() []ConsolidatedLine {
	sort.Strings(m.order)
	out := make([]ConsolidatedLine, 0, len(m.order))
	for _, code := range m.order {
		out = append(out, *m.byCode[code])
	}
	return out
}
