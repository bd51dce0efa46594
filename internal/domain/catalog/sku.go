package catalog

import (
	"context"

	"github.com/retailportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SKU represents an orderable product.
//
// Code must match the ERP inventory SKU string byte-for-byte, including any
// trailing punctuation that distinguishes packaging variants; the ERP links
// inventory by exact string comparison.
type SKU struct {
	shared.BaseEntity
	Code      string
	Name      string
	PackSize  int
	BasePrice decimal.Decimal
	Active    bool
	// ErpStockItemID is the ERP's internal inventory identifier, populated
	// by an out-of-band reconciliation process. Nil until reconciled.
	ErpStockItemID *string
	Retailers      []RetailerSKU
}

// RetailerSKU links a SKU to a retailer that is entitled to order it,
// optionally overriding the unit price for that retailer.
type RetailerSKU struct {
	SKUID         uuid.UUID
	RetailerID    uuid.UUID
	PriceOverride *decimal.Decimal
	Active        bool
}

// NewSKU creates a new active SKU
func NewSKU(code, name string, packSize int, basePrice decimal.Decimal) (*SKU, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "SKU code cannot be empty")
	}
	if packSize <= 0 {
		return nil, shared.NewDomainError("INVALID_PACK_SIZE", "Pack size must be positive")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}
	return &SKU{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		PackSize:   packSize,
		BasePrice:  basePrice,
		Active:     true,
	}, nil
}

// EntitlementFor returns the active retailer entitlement for the given
// retailer, or nil when the SKU is not enabled for that retailer.
func (s *SKU) EntitlementFor(retailerID uuid.UUID) *RetailerSKU {
	for i := range s.Retailers {
		rs := &s.Retailers[i]
		if rs.RetailerID == retailerID && rs.Active {
			return rs
		}
	}
	return nil
}

// SKURepository defines persistence operations for SKUs
type SKURepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SKU, error)
	FindByCode(ctx context.Context, code string) (*SKU, error)
	// FindByCodes loads SKUs with their retailer entitlements for the given
	// codes. Missing codes are simply absent from the result.
	FindByCodes(ctx context.Context, codes []string) ([]SKU, error)
	Save(ctx context.Context, sku *SKU) error
}
