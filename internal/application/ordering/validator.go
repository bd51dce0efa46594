package ordering

import (
	"fmt"

	"github.com/retailportal/backend/internal/domain/catalog"
	"github.com/retailportal/backend/internal/domain/ordering"
	"github.com/retailportal/backend/internal/domain/partner"
	"github.com/retailportal/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validator applies the ordering policy to submissions: retailer checks,
// line checks against the catalog, and the minimum order value.
type Validator struct {
	cfg config.OrderingConfig
}

// NewValidator creates a validator with the ordering policy
func NewValidator(cfg config.OrderingConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateRetailer checks the retailer may place orders at all
func (v *Validator) ValidateRetailer(retailer *partner.Retailer) ordering.ValidationResult {
	var result ordering.ValidationResult
	if !retailer.Active {
		result.Add("retailer", ordering.CodeRetailerInactive, "Retailer account is inactive")
		return result
	}
	if !retailer.HasCompleteAddress() {
		result.Add("retailer", ordering.CodeAddressRequired, "Retailer delivery address is incomplete")
	}
	return result
}

// ValidateLines checks every submitted line against the catalog and, where
// valid, prices it. The returned lines are only meaningful when the result
// has no violations. The skus map is keyed by SKU code.
func (v *Validator) ValidateLines(retailer *partner.Retailer, inputs []SubmitOrderLineInput, skus map[string]*catalog.SKU) ([]ordering.OrderLine, ordering.ValidationResult) {
	var result ordering.ValidationResult
	if len(inputs) == 0 {
		result.Add("lines", ordering.CodeEmptyLines, "Order must contain at least one line item")
		return nil, result
	}

	lines := make([]ordering.OrderLine, 0, len(inputs))
	for i, input := range inputs {
		field := fmt.Sprintf("lines[%d]", i)

		if input.Qty <= 0 {
			result.Add(field+".qty", ordering.CodeInvalidQty, "Quantity must be positive")
			continue
		}

		sku, ok := skus[input.SKUCode]
		if !ok {
			result.Add(field+".sku_code", ordering.CodeSKUNotFound, fmt.Sprintf("Unknown SKU %s", input.SKUCode))
			continue
		}
		if !sku.Active {
			result.Add(field+".sku_code", ordering.CodeSKUInactive, fmt.Sprintf("SKU %s is no longer available", input.SKUCode))
			continue
		}

		entitlement := sku.EntitlementFor(retailer.ID)
		if entitlement == nil {
			result.Add(field+".sku_code", ordering.CodeSKUNotAvailable, fmt.Sprintf("SKU %s is not available to this retailer", input.SKUCode))
			continue
		}

		if sku.PackSize <= 0 {
			result.Add(field+".sku_code", ordering.CodeInvalidPackSize, fmt.Sprintf("SKU %s has an invalid pack size", input.SKUCode))
			continue
		}
		if v.cfg.OrderUnits == config.OrderUnitsCasesOnly && input.Qty%sku.PackSize != 0 {
			result.Add(field+".qty", ordering.CodeInvalidPackSize,
				fmt.Sprintf("Quantity must be a multiple of the pack size %d", sku.PackSize))
			continue
		}

		unitPrice := resolveUnitPrice(retailer, sku, entitlement)
		lines = append(lines, ordering.OrderLine{
			ID:        uuid.New(),
			SKUID:     sku.ID,
			SKUCode:   sku.Code,
			SKUName:   sku.Name,
			Qty:       input.Qty,
			UnitPrice: unitPrice,
			LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(input.Qty))),
		})
	}
	return lines, result
}

// ValidateTotal checks the order meets the minimum order value
func (v *Validator) ValidateTotal(total decimal.Decimal) ordering.ValidationResult {
	var result ordering.ValidationResult
	minimum := decimal.NewFromFloat(v.cfg.MinimumOrderValue)
	if total.LessThan(minimum) {
		result.Add("total", ordering.CodeBelowMinimum,
			fmt.Sprintf("Order total %s is below the minimum order value %s, short by %s",
				total.StringFixed(2), minimum.StringFixed(2), minimum.Sub(total).StringFixed(2)))
	}
	return result
}

// resolveUnitPrice picks the per-each price for a line. Precedence: the
// retailer's negotiated case price divided by pack size, then the
// per-entitlement override, then the catalog base price.
func resolveUnitPrice(retailer *partner.Retailer, sku *catalog.SKU, entitlement *catalog.RetailerSKU) decimal.Decimal {
	if retailer.CasePrice != nil && retailer.CasePrice.IsPositive() && sku.PackSize > 0 {
		return retailer.CasePrice.Div(decimal.NewFromInt(int64(sku.PackSize)))
	}
	if entitlement.PriceOverride != nil {
		return *entitlement.PriceOverride
	}
	return sku.BasePrice
}
