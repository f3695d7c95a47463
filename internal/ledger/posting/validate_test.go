package posting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestValidateDoubleEntryBalanced(t *testing.T) {
	lines := []LineAmount{
		{Debit: "1000.00", Credit: "0"},
		{Debit: "0", Credit: "600.00"},
		{Debit: "0", Credit: "400.00"},
	}
	require.NoError(t, ValidateDoubleEntry(lines))
}

func TestValidateDoubleEntryWithinTolerance(t *testing.T) {
	lines := []LineAmount{
		{Debit: "100.005", Credit: "0"},
		{Debit: "0", Credit: "100.00"},
	}
	require.NoError(t, ValidateDoubleEntry(lines))
}

func TestValidateDoubleEntryUnbalanced(t *testing.T) {
	lines := []LineAmount{
		{Debit: "1000.00", Credit: "0"},
		{Debit: "0", Credit: "900.00"},
	}
	err := ValidateDoubleEntry(lines)
	require.Error(t, err)

	var balErr *BalanceError
	require.ErrorAs(t, err, &balErr)
	require.InDelta(t, 1000.00, balErr.TotalDebit, 1e-9)
	require.InDelta(t, 900.00, balErr.TotalCredit, 1e-9)
	require.InDelta(t, 100.00, balErr.Difference, 1e-9)
	require.Contains(t, err.Error(), "1000.00")
	require.Contains(t, err.Error(), "900.00")
	require.Contains(t, err.Error(), "100.00")
}

func TestValidateDoubleEntryEmptyIsValid(t *testing.T) {
	require.NoError(t, ValidateDoubleEntry(nil))
	require.NoError(t, ValidateDoubleEntry([]LineAmount{}))
}

func TestValidateDoubleEntryMalformedAmountsAreZero(t *testing.T) {
	lines := []LineAmount{
		{Debit: "abc", Credit: ""},
		{Debit: "50", Credit: "50"},
	}
	require.NoError(t, ValidateDoubleEntry(lines))
}

func TestDebitNormal(t *testing.T) {
	cases := map[string]bool{
		"asset":              true,
		"expense":            true,
		"cost_of_goods_sold": true,
		"liability":          false,
		"equity":             false,
		"revenue":            false,
		"income":             false,
		"REVENUE":            false,
		"Asset":              true,
		"unknown":            true,
	}
	for accountType, want := range cases {
		require.Equal(t, want, DebitNormal(accountType), "type %s", accountType)
	}
}

func TestSignedBalance(t *testing.T) {
	debit := decimal.NewFromInt(700)
	credit := decimal.NewFromInt(300)

	require.True(t, SignedBalance("asset", debit, credit).Equal(decimal.NewFromInt(400)))
	require.True(t, SignedBalance("revenue", debit, credit).Equal(decimal.NewFromInt(-400)))
	require.True(t, SignedBalance("liability", credit, debit).Equal(decimal.NewFromInt(400)))
}
