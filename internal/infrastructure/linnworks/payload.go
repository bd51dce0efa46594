package linnworks

import (
	"fmt"
	"time"

	"github.com/retailportal/backend/internal/domain/catalog"
	"github.com/retailportal/backend/internal/domain/erp"
	"github.com/retailportal/backend/internal/domain/ordering"
	"github.com/retailportal/backend/internal/domain/partner"
	"github.com/retailportal/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

const (
	// payloadSource marks portal orders as manually entered channel orders
	payloadSource = "MANUAL"
	// vatRate is the UK standard VAT rate applied to inclusive prices
	vatRate = 20.0
	// defaultDispatchDays is how far out dispatch is requested when the
	// retailer gave no delivery date
	defaultDispatchDays = 5
	// noteUserName identifies portal-generated order notes
	noteUserName = "Retail Portal"
)

// PayloadBuilder translates portal orders into the ERP create-order schema
type PayloadBuilder struct {
	currency string
	taxMode  config.TaxMode
}

// NewPayloadBuilder creates a payload builder with the ordering policy
func NewPayloadBuilder(cfg config.OrderingConfig) *PayloadBuilder {
	return &PayloadBuilder{
		currency: cfg.Currency,
		taxMode:  cfg.TaxMode,
	}
}

// Build produces the ERP create-order payload for one order. Quantities are
// converted to whole cases and unit prices scaled to case prices, because
// the ERP tracks inventory in cases while the portal prices in eaches.
// The skus map is keyed by SKU code and must cover every order line.
func (b *PayloadBuilder) Build(order *ordering.Order, retailer *partner.Retailer, skus map[string]*catalog.SKU, now time.Time) (erp.OrderPayload, error) {
	items := make([]erp.OrderItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		sku, ok := skus[line.SKUCode]
		if !ok {
			return erp.OrderPayload{}, fmt.Errorf("missing catalog entry for SKU %s", line.SKUCode)
		}

		packSize := sku.PackSize
		if packSize <= 0 {
			packSize = 1
		}

		taxRate := 0.0
		inclusive := b.taxMode == config.TaxModeInclusive
		if inclusive {
			taxRate = vatRate
		}

		item := erp.OrderItem{
			ItemNumber:       line.SKUCode,
			SKU:              line.SKUCode,
			ChannelSKU:       line.SKUCode,
			ItemTitle:        line.SKUName,
			Qty:              line.Qty / packSize,
			PricePerUnit:     line.UnitPrice.Mul(decimal.NewFromInt(int64(packSize))).InexactFloat64(),
			TaxRate:          taxRate,
			TaxCostInclusive: inclusive,
		}
		if sku.ErpStockItemID != nil {
			item.BinRack = *sku.ErpStockItemID
		}
		items = append(items, item)
	}

	dispatchBy := now.AddDate(0, 0, defaultDispatchDays)
	if order.RequestedDeliveryDate != nil {
		dispatchBy = *order.RequestedDeliveryDate
	}

	address := &erp.Address{
		FullName:     retailer.Name,
		Company:      retailer.Name,
		Address1:     retailer.AddressLine1,
		Address2:     retailer.AddressLine2,
		Address3:     retailer.AddressLine3,
		Town:         retailer.City,
		Region:       retailer.County,
		PostCode:     retailer.Postcode,
		Country:      retailer.Country,
		PhoneNumber:  retailer.Phone,
		EmailAddress: retailer.ContactEmail,
	}

	payload := erp.OrderPayload{
		Source:                 payloadSource,
		SubSource:              retailer.Code,
		ReferenceNumber:        order.ExternalRef,
		ExternalReference:      order.ExternalRef,
		ReceivedDate:           now.UTC().Format(time.RFC3339),
		DispatchBy:             dispatchBy.UTC().Format(time.RFC3339),
		Currency:               b.currency,
		ChannelBuyerName:       retailer.Name,
		DeliveryNotes:          order.Notes,
		OrderItems:             items,
		DeliveryAddress:        address,
		BillingAddress:         address,
		PaymentStatus:          "UNPAID",
		PaidAmount:             0,
		Locked:                 false,
		HoldOrCancel:           false,
		Status:                 0,
		AutomaticallyLinkBySKU: true,
	}

	if order.PONumber != "" {
		payload.Notes = append(payload.Notes, erp.OrderNote{
			Note:          fmt.Sprintf("PO number: %s", order.PONumber),
			NoteEntryDate: now.UTC().Format(time.RFC3339),
			NoteUserName:  noteUserName,
			IsInternal:    true,
		})
	}
	if order.Notes != "" {
		payload.Notes = append(payload.Notes, erp.OrderNote{
			Note:          order.Notes,
			NoteEntryDate: now.UTC().Format(time.RFC3339),
			NoteUserName:  noteUserName,
			IsInternal:    false,
		})
	}

	return payload, nil
}
