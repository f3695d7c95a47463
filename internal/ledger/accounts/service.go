package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/openbooks-hq/openbooks/internal/ledger/shared"
)

var validTypes = map[string]struct{}{
	TypeAsset:     {},
	TypeLiability: {},
	TypeEquity:    {},
	TypeRevenue:   {},
	TypeIncome:    {},
	TypeExpense:   {},
	TypeCOGS:      {},
}

// Service exposes the account directory to the posting core and reports.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID) ([]Account, error) {
	return s.repo.List(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, accountID uuid.UUID) (Account, error) {
	return s.repo.Get(ctx, companyID, accountID)
}

// Create validates the classification and inserts the account. Code
// uniqueness within the company is enforced by the database constraint.
func (s *Service) Create(ctx context.Context, a Account) (Account, error) {
	a.Type = strings.ToLower(strings.TrimSpace(a.Type))
	if _, ok := validTypes[a.Type]; !ok {
		return Account{}, shared.ErrInvalidAccountType
	}
	if strings.TrimSpace(a.Code) == "" || strings.TrimSpace(a.Name) == "" {
		return Account{}, errors.New("ledger: account code and name required")
	}
	return s.repo.Create(ctx, a)
}
