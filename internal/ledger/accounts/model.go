package accounts

import (
	"time"

	"github.com/google/uuid"
)

// Known account classifications. Reports assume a posted account never
// changes type, so the service rejects anything outside this set up front.
const (
	TypeAsset     = "asset"
	TypeLiability = "liability"
	TypeEquity    = "equity"
	TypeRevenue   = "revenue"
	TypeIncome    = "income"
	TypeExpense   = "expense"
	TypeCOGS      = "cost_of_goods_sold"
)

// Account is one node of a company's chart of accounts. The tree is formed
// through ParentID; Code is unique within a company.
type Account struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Code      string
	Name      string
	Type      string
	Subtype   string
	ParentID  *uuid.UUID
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
