package partner

import (
	"context"

	"github.com/retailportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Retailer represents a store that can place orders through the portal.
// The delivery address doubles as the billing address: the portal has no
// separate billing identity.
type Retailer struct {
	shared.BaseEntity
	Code         string
	Name         string
	ContactEmail string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	AddressLine3 string
	City         string
	County       string
	Postcode     string
	Country      string
	// CasePrice is an optional flat price per case that overrides all
	// SKU-level pricing for this retailer.
	CasePrice *decimal.Decimal
	Active    bool
}

// NewRetailer creates a new active retailer
func NewRetailer(code, name, contactEmail string) (*Retailer, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Retailer code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Retailer name cannot be empty")
	}
	return &Retailer{
		BaseEntity:   shared.NewBaseEntity(),
		Code:         code,
		Name:         name,
		ContactEmail: contactEmail,
		Country:      "United Kingdom",
		Active:       true,
	}, nil
}

// HasCompleteAddress reports whether the retailer has filled in the address
// fields required before an order can be delivered.
func (r *Retailer) HasCompleteAddress() bool {
	return r.AddressLine1 != "" && r.City != "" && r.Postcode != ""
}

// RetailerRepository defines persistence operations for retailers
type RetailerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Retailer, error)
	FindByCode(ctx context.Context, code string) (*Retailer, error)
	Save(ctx context.Context, retailer *Retailer) error
}
