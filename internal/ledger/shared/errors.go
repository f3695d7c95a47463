package shared

import "errors"

var (
	// ErrJournalNotFound indicates a missing or foreign-company journal.
	ErrJournalNotFound = errors.New("ledger: journal not found")
	// ErrAccountNotFound indicates a missing account.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrCompanyNotFound indicates a missing company.
	ErrCompanyNotFound = errors.New("ledger: company not found")
	// ErrEmptyJournal indicates a posting with no lines.
	ErrEmptyJournal = errors.New("ledger: journal requires at least one line")
	// ErrDuplicateCode indicates an account code collision within a company.
	ErrDuplicateCode = errors.New("ledger: account code already in use")
	// ErrInvalidAccountType indicates an unknown account classification.
	ErrInvalidAccountType = errors.New("ledger: invalid account type")
	// ErrNegativeAmount indicates a line with a negative debit or credit.
	ErrNegativeAmount = errors.New("ledger: line amounts must not be negative")
	// ErrInvoiceNotFound indicates a missing or foreign-company invoice.
	ErrInvoiceNotFound = errors.New("ledger: invoice not found")
	// ErrBillNotFound indicates a missing or foreign-company bill.
	ErrBillNotFound = errors.New("ledger: bill not found")
	// ErrEmptyDocument indicates an invoice or bill with no lines.
	ErrEmptyDocument = errors.New("ledger: document requires at least one line")
)
