package reports

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/openbooks-hq/openbooks/internal/ledger/accounts"
	"github.com/openbooks-hq/openbooks/internal/ledger/companies"
	"github.com/openbooks-hq/openbooks/internal/ledger/posting"
)

// Service orchestrates the report builders over the read-side repositories.
// All methods are read-only and safe to call concurrently.
type Service struct {
	repo      Repository
	accounts  accounts.Repository
	companies companies.Repository
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, accountsRepo accounts.Repository, companyRepo companies.Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		accounts:  accountsRepo,
		companies: companyRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// TrialBalance reports opening balances as of the start date and activity
// through the end date for every account with movement.
func (s *Service) TrialBalance(ctx context.Context, companyID uuid.UUID, start, end time.Time) (TrialBalance, error) {
	accts, err := s.accounts.List(ctx, companyID)
	if err != nil {
		return TrialBalance{}, err
	}
	opening, err := s.repo.OpeningBalances(ctx, companyID, start)
	if err != nil {
		return TrialBalance{}, err
	}
	activity, err := s.repo.Activity(ctx, companyID, &start, &end)
	if err != nil {
		return TrialBalance{}, err
	}
	return BuildTrialBalance(accts, opening, activity), nil
}

// GeneralLedger reports one account's entries over [start, end] with a
// running balance seeded from the opening balance at start.
func (s *Service) GeneralLedger(ctx context.Context, companyID, accountID uuid.UUID, start, end time.Time) (GeneralLedger, error) {
	account, err := s.accounts.Get(ctx, companyID, accountID)
	if err != nil {
		return GeneralLedger{}, err
	}
	opening, err := s.repo.AccountOpeningBalance(ctx, companyID, accountID, start)
	if err != nil {
		return GeneralLedger{}, err
	}
	entries, err := s.repo.AccountEntries(ctx, companyID, accountID, start, end)
	if err != nil {
		return GeneralLedger{}, err
	}
	return BuildGeneralLedger(account, opening, entries), nil
}

// IncomeStatement reports revenue, COGS, and expense activity over the
// period. Income statement accounts reset per period, so no opening
// balances are involved.
func (s *Service) IncomeStatement(ctx context.Context, companyID uuid.UUID, start, end time.Time) (IncomeStatement, error) {
	accts, err := s.accounts.List(ctx, companyID)
	if err != nil {
		return IncomeStatement{}, err
	}
	activity, err := s.repo.Activity(ctx, companyID, &start, &end)
	if err != nil {
		return IncomeStatement{}, err
	}
	return BuildIncomeStatement(accts, activity), nil
}

// BalanceSheet reports the cumulative position from inception through the
// as-of date.
func (s *Service) BalanceSheet(ctx context.Context, companyID uuid.UUID, asOf time.Time) (BalanceSheet, error) {
	accts, err := s.accounts.List(ctx, companyID)
	if err != nil {
		return BalanceSheet{}, err
	}
	activity, err := s.repo.Activity(ctx, companyID, nil, &asOf)
	if err != nil {
		return BalanceSheet{}, err
	}
	return BuildBalanceSheet(asOf, accts, activity), nil
}

// ConsolidatedBalanceSheet merges the parent's and its direct subsidiaries'
// balance sheets by account code. Per-company sheets are built concurrently;
// no elimination entries are applied.
func (s *Service) ConsolidatedBalanceSheet(ctx context.Context, parentID uuid.UUID, asOf time.Time) (ConsolidatedBalanceSheet, error) {
	group, err := s.companies.ListGroup(ctx, parentID)
	if err != nil {
		return ConsolidatedBalanceSheet{}, err
	}

	sheets := make([]CompanyBalanceSheet, len(group))
	g, gctx := errgroup.WithContext(ctx)
	for i, company := range group {
		i, company := i, company
		g.Go(func() error {
			sheet, err := s.BalanceSheet(gctx, company.ID, asOf)
			if err != nil {
				return err
			}
			sheets[i] = CompanyBalanceSheet{CompanyName: company.Name, Sheet: sheet}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ConsolidatedBalanceSheet{}, err
	}
	return MergeBalanceSheets(asOf, sheets), nil
}

// GlobalDashboard reports per-company cash position and year-to-date income
// across the consolidation group, fanned out concurrently.
func (s *Service) GlobalDashboard(ctx context.Context, parentID uuid.UUID) (Dashboard, error) {
	group, err := s.companies.ListGroup(ctx, parentID)
	if err != nil {
		return Dashboard{}, err
	}

	now := s.now().UTC()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	stats := make([]CompanyStats, len(group))
	g, gctx := errgroup.WithContext(ctx)
	for i, company := range group {
		i, company := i, company
		g.Go(func() error {
			cash, err := s.repo.CashPosition(gctx, company.ID)
			if err != nil {
				return err
			}
			is, err := s.IncomeStatement(gctx, company.ID, yearStart, now)
			if err != nil {
				return err
			}
			stats[i] = CompanyStats{
				CompanyID: company.ID,
				Name:      company.Name,
				Cash:      cash.InexactFloat64(),
				Revenue:   is.TotalRevenue,
				Expenses:  is.TotalCOGS + is.TotalExpenses,
				NetIncome: is.NetIncome,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(stats), nil
}

// AccountBalances returns the raw signed balance of every account with
// movement over an optional date range, ordered by account code.
func (s *Service) AccountBalances(ctx context.Context, companyID uuid.UUID, start, end *time.Time) ([]AccountBalanceRow, error) {
	accts, err := s.accounts.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	activity, err := s.repo.Activity(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]AccountBalanceRow, 0, len(activity))
	for _, acc := range accts {
		act, ok := activity[acc.ID]
		if !ok {
			continue
		}
		rows = append(rows, AccountBalanceRow{
			AccountID:      acc.ID,
			AccountCode:    acc.Code,
			AccountName:    acc.Name,
			AccountType:    acc.Type,
			AccountSubtype: acc.Subtype,
			ParentID:       acc.ParentID,
			Debit:          act.Debit.InexactFloat64(),
			Credit:         act.Credit.InexactFloat64(),
			Balance:        posting.SignedBalance(acc.Type, act.Debit, act.Credit).InexactFloat64(),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountCode < rows[j].AccountCode })
	return rows, nil
}
