package ap

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

// LineInput is one bill line as submitted. Amount is authoritative.
type LineInput struct {
	ItemID      *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Discount    decimal.Decimal
	Amount      decimal.Decimal
}

// BillInput is the payload for creating a bill with its lines.
type BillInput struct {
	CompanyID  uuid.UUID
	ContactID  uuid.UUID
	BillNumber string
	Date       time.Time
	DueDate    time.Time
	Currency   string
	Status     string
	Notes      string
	Lines      []LineInput
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// CreateBillWithLines writes the header and its document lines in one
// transaction. The bill total is the sum of line amounts.
func (s *Service) CreateBillWithLines(ctx context.Context, input BillInput) (Bill, error) {
	if err := input.validate(); err != nil {
		return Bill{}, err
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

	var created Bill
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		b, err := tx.InsertBill(ctx, Bill{
			CompanyID:  input.CompanyID,
			ContactID:  input.ContactID,
			BillNumber: input.BillNumber,
			Date:       input.Date,
			DueDate:    input.DueDate,
			Currency:   input.Currency,
			Total:      total,
			PaidAmount: decimal.Zero,
			Status:     status,
			Notes:      input.Notes,
		})
		if err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, b.ID, lines); err != nil {
			return err
		}
		created = b
		created.Lines = lines
		return nil
	})
	if err != nil {
		return Bill{}, err
	}

	s.logger.Info("bill created",
		slog.String("bill_id", created.ID.String()),
		slog.String("company_id", created.CompanyID.String()),
		slog.Int("lines", len(lines)))
	return created, nil
}

// DeleteBillWithRelated removes the bill and its document lines atomically,
// scoped by company.
func (s *Service) DeleteBillWithRelated(ctx context.Context, companyID, billID uuid.UUID) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.DeleteLines(ctx, billID); err != nil {
			return err
		}
		return tx.DeleteBill(ctx, companyID, billID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("bill deleted",
		slog.String("bill_id", billID.String()),
		slog.String("company_id", companyID.String()))
	return nil
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID) ([]Bill, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, billID uuid.UUID) (Bill, error) {
	return s.repo.GetWithLines(ctx, companyID, billID)
}

// AgingReport buckets open payables by days past due at asOf.
func (s *Service) AgingReport(ctx context.Context, companyID uuid.UUID, asOf time.Time) (aging.Report, error) {
	if asOf.IsZero() {
		asOf = s.now().UTC()
	}
	docs, err := s.repo.ListOutstanding(ctx, companyID)
	if err != nil {
		return aging.Report{}, err
	}
	return aging.BuildReport(aging.KindPayable, asOf, docs), nil
}

func (input BillInput) validate() error {
	if input.CompanyID == uuid.Nil {
		return errors.New("ledger: company required")
	}
	if input.ContactID == uuid.Nil {
		return errors.New("ledger: contact required")
	}
	if input.BillNumber == "" {
		return errors.New("ledger: bill number required")
	}
	if input.Date.IsZero() || input.DueDate.IsZero() {
		return errors.New("ledger: bill date and due date required")
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
