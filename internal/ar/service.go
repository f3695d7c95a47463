package ar

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks-hq/openbooks/internal/ledger/aging"
	"github.com/openbooks-hq/openbooks/internal/ledger/shared"
)

// LineInput is one invoice line as submitted. Amount is authoritative;
// quantity and rate are carried for display and later audit.
type LineInput struct {
	ItemID      *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Discount    decimal.Decimal
	Amount      decimal.Decimal
}

// InvoiceInput is the payload for creating an invoice with its lines.
type InvoiceInput struct {
	CompanyID     uuid.UUID
	ContactID     uuid.UUID
	InvoiceNumber string
	Date          time.Time
	DueDate       time.Time
	Currency      string
	Status        string
	Notes         string
	Lines         []LineInput
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// CreateInvoiceWithLines writes the header and its document lines in one
// transaction. The invoice total is the sum of line amounts.
func (s *Service) CreateInvoiceWithLines(ctx context.Context, input InvoiceInput) (Invoice, error) {
	if err := input.validate(); err != nil {
		return Invoice{}, err
	}

	total := decimal.Zero
	lines := make([]DocumentLine, 0, len(input.Lines))
	for i, l := range input.Lines {
		total = total.Add(l.Amount)
		lines = append(lines, DocumentLine{
			LineNumber:  i + 1,
			ItemID:      l.ItemID,
			Description: l.Description,
			Quantity:    l.Quantity,
			Rate:        l.Rate,
			Discount:    l.Discount,
			Amount:      l.Amount,
		})
	}

	status := input.Status
	if status == "" {
		status = StatusDraft
	}

	var created Invoice
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		inv, err := tx.InsertInvoice(ctx, Invoice{
			CompanyID:     input.CompanyID,
			ContactID:     input.ContactID,
			InvoiceNumber: input.InvoiceNumber,
			Date:          input.Date,
			DueDate:       input.DueDate,
			Currency:      input.Currency,
			Total:         total,
			PaidAmount:    decimal.Zero,
			Status:        status,
			Notes:         input.Notes,
		})
		if err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, inv.ID, lines); err != nil {
			return err
		}
		created = inv
		created.Lines = lines
		return nil
	})
	if err != nil {
		return Invoice{}, err
	}

	s.logger.Info("sales invoice created",
		slog.String("invoice_id", created.ID.String()),
		slog.String("company_id", created.CompanyID.String()),
		slog.Int("lines", len(lines)))
	return created, nil
}

// DeleteInvoiceWithRelated removes the invoice and its document lines
// atomically, scoped by company.
func (s *Service) DeleteInvoiceWithRelated(ctx context.Context, companyID, invoiceID uuid.UUID) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.DeleteLines(ctx, invoiceID); err != nil {
			return err
		}
		return tx.DeleteInvoice(ctx, companyID, invoiceID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("sales invoice deleted",
		slog.String("invoice_id", invoiceID.String()),
		slog.String("company_id", companyID.String()))
	return nil
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID) ([]Invoice, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	return s.repo.GetWithLines(ctx, companyID, invoiceID)
}

// AgingReport buckets open receivables by days past due at asOf.
func (s *Service) AgingReport(ctx context.Context, companyID uuid.UUID, asOf time.Time) (aging.Report, error) {
	if asOf.IsZero() {
		asOf = s.now().UTC()
	}
	docs, err := s.repo.ListOutstanding(ctx, companyID)
	if err != nil {
		return aging.Report{}, err
	}
	return aging.BuildReport(aging.KindReceivable, asOf, docs), nil
}

func (input InvoiceInput) validate() error {
	if input.CompanyID == uuid.Nil {
		return errors.New("ledger: company required")
	}
	if input.ContactID == uuid.Nil {
		return errors.New("ledger: contact required")
	}
	if input.InvoiceNumber == "" {
		return errors.New("ledger: invoice number required")
	}
	if input.Date.IsZero() || input.DueDate.IsZero() {
		return errors.New("ledger: invoice date and due date required")
	}
	if len(input.Lines) == 0 {
		return shared.ErrEmptyDocument
	}
	for _, l := range input.Lines {
		if l.Amount.IsNegative() {
			return shared.ErrNegativeAmount
		}
	}
	return nil
}
