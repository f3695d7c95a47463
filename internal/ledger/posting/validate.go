// Package posting holds the pure double-entry rules shared by every write
// path and every report: the balance check that runs before a journal is
// committed and the debit/credit sign convention per account type.
package posting

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Tolerance is the absolute amount by which total debits and credits may
// diverge before a journal is rejected. It is deliberately absolute, not
// relative to currency magnitude; see DESIGN.md for the open question around
// low-value-unit currencies.
const Tolerance = 0.01

// LineAmount carries the string-encoded amounts of a single journal line as
// supplied by callers. Amounts arrive as decimal strings to avoid float
// drift in storage; validation arithmetic parses them transiently.
type LineAmount struct {
	Debit  string
	Credit string
}

// BalanceError reports an unbalanced journal with both totals so callers can
// surface the message verbatim.
type BalanceError struct {
	TotalDebit  float64
	TotalCredit float64
	Difference  float64
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf(
		"ledger: double-entry validation failed: debits (%.2f) must equal credits (%.2f), difference %.2f",
		e.TotalDebit, e.TotalCredit, e.Difference,
	)
}

// ValidateDoubleEntry checks that the lines of a journal balance within
// Tolerance. It must run before any write that creates journal lines,
// whatever the caller. An empty line set sums to 0/0 and is considered
// balanced; rejecting empty journals is the caller's job.
func ValidateDoubleEntry(lines []LineAmount) error {
	var totalDebit, totalCredit float64
	for _, line := range lines {
		totalDebit += parseAmount(line.Debit)
		totalCredit += parseAmount(line.Credit)
	}
	diff := math.Abs(totalDebit - totalCredit)
	if diff > Tolerance {
		return &BalanceError{TotalDebit: totalDebit, TotalCredit: totalCredit, Difference: diff}
	}
	return nil
}

// parseAmount treats blank or malformed values as zero, matching how line
// amounts default when a caller posts a debit-only or credit-only line.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// Credit-normal account types: everything else, including unknown types,
// defaults to debit-normal.
var creditNormalTypes = map[string]struct{}{
	"liability": {},
	"equity":    {},
	"revenue":   {},
	"income":    {},
}

// DebitNormal reports whether an account type carries its positive balance
// on the debit side (asset, expense, cost_of_goods_sold).
func DebitNormal(accountType string) bool {
	_, creditNormal := creditNormalTypes[strings.ToLower(accountType)]
	return !creditNormal
}

// SignedBalance applies the sign convention for an account type: debit-normal
// accounts report debit-credit, credit-normal accounts report credit-debit.
// Every report derives balances through this helper rather than re-deriving
// the convention.
func SignedBalance(accountType string, debit, credit decimal.Decimal) decimal.Decimal {
	if DebitNormal(accountType) {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}
