package companies

import (
	"time"

	"github.com/google/uuid"
)

// Company is a tenant. A company's ledger is fully isolated by its ID;
// cross-company aggregation only happens explicitly in consolidated reports.
type Company struct {
	ID              uuid.UUID
	Name            string
	BaseCurrency    string
	ParentCompanyID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsSubsidiaryOf reports whether the company belongs to the given parent's
// consolidation group as a direct child.
func (c Company) IsSubsidiaryOf(parentID uuid.UUID) bool {
	return c.ParentCompanyID != nil && *c.ParentCompanyID == parentID
}
