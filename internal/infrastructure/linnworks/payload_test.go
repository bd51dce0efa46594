package linnworks

import (
	"testing"
	"time"

	"github.com/retailportal/backend/internal/domain/catalog"
	"github.com/retailportal/backend/internal/domain/ordering"
	"github.com/retailportal/backend/internal/domain/partner"
	"github.com/retailportal/backend/internal/domain/shared"
	"github.com/retailportal/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetailer() *partner.Retailer {
	return &partner.Retailer{
		BaseEntity:   shared.NewBaseEntity(),
		Code:         "NORTHSHOP",
		Name:         "North Shop Ltd",
		ContactEmail: "orders@northshop.example",
		Phone:        "0113 456 7890",
		AddressLine1: "1 High Street",
		City:         "Leeds",
		County:       "West Yorkshire",
		Postcode:     "LS1 1AA",
		Country:      "United Kingdom",
		Active:       true,
	}
}

func testSKU(code string, packSize int, erpStockID string) *catalog.SKU {
	sku := &catalog.SKU{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       "Test " + code,
		PackSize:   packSize,
		BasePrice:  decimal.NewFromFloat(1.50),
		Active:     true,
	}
	if erpStockID != "" {
		sku.ErpStockItemID = &erpStockID
	}
	return sku
}

func TestPayloadBuilder_Build(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("converts quantities to cases and prices to case prices", func(t *testing.T) {
		builder := NewPayloadBuilder(config.OrderingConfig{
			Currency: "GBP",
			TaxMode:  config.TaxModeInclusive,
		})

		order, err := ordering.NewOrder(uuid.New(), "RP-20260115-AB12CD34", []ordering.OrderLine{
			{
				ID:        uuid.New(),
				SKUID:     uuid.New(),
				SKUCode:   "WID-001",
				SKUName:   "Widget",
				Qty:       24, // two cases of twelve
				UnitPrice: decimal.NewFromFloat(1.25),
				LineTotal: decimal.NewFromFloat(30.00),
			},
		})
		require.NoError(t, err)

		skus := map[string]*catalog.SKU{
			"WID-001": testSKU("WID-001", 12, "stock-guid-1"),
		}

		payload, err := builder.Build(order, testRetailer(), skus, now)
		require.NoError(t, err)

		assert.Equal(t, "MANUAL", payload.Source)
		assert.Equal(t, "NORTHSHOP", payload.SubSource)
		assert.Equal(t, "RP-20260115-AB12CD34", payload.ReferenceNumber)
		assert.Equal(t, "RP-20260115-AB12CD34", payload.ExternalReference)
		assert.Equal(t, "GBP", payload.Currency)
		assert.Equal(t, "UNPAID", payload.PaymentStatus)
		assert.Zero(t, payload.PaidAmount)
		assert.False(t, payload.Locked)
		assert.False(t, payload.HoldOrCancel)
		assert.Equal(t, 0, payload.Status)
		assert.True(t, payload.AutomaticallyLinkBySKU)

		require.Len(t, payload.OrderItems, 1)
		item := payload.OrderItems[0]
		assert.Equal(t, 2, item.Qty)
		assert.InDelta(t, 15.0, item.PricePerUnit, 0.0001)
		assert.InDelta(t, 20.0, item.TaxRate, 0.0001)
		assert.True(t, item.TaxCostInclusive)
		assert.Equal(t, "stock-guid-1", item.BinRack)
		assert.Equal(t, "WID-001", item.SKU)
		assert.Equal(t, "WID-001", item.ChannelSKU)
	})

	t.Run("exclusive tax mode zeroes the tax rate", func(t *testing.T) {
		builder := NewPayloadBuilder(config.OrderingConfig{
			Currency: "GBP",
			TaxMode:  config.TaxModeExclusive,
		})

		order, err := ordering.NewOrder(uuid.New(), "RP-20260115-EEFF0011", []ordering.OrderLine{
			{ID: uuid.New(), SKUID: uuid.New(), SKUCode: "WID-001", SKUName: "Widget", Qty: 12,
				UnitPrice: decimal.NewFromFloat(1.25), LineTotal: decimal.NewFromFloat(15.00)},
		})
		require.NoError(t, err)

		payload, err := builder.Build(order, testRetailer(), map[string]*catalog.SKU{
			"WID-001": testSKU("WID-001", 12, ""),
		}, now)
		require.NoError(t, err)

		require.Len(t, payload.OrderItems, 1)
		assert.Zero(t, payload.OrderItems[0].TaxRate)
		assert.False(t, payload.OrderItems[0].TaxCostInclusive)
		assert.Empty(t, payload.OrderItems[0].BinRack)
	})

	t.Run("defaults dispatch to five days out", func(t *testing.T) {
		builder := NewPayloadBuilder(config.OrderingConfig{Currency: "GBP", TaxMode: config.TaxModeInclusive})

		order, err := ordering.NewOrder(uuid.New(), "RP-20260115-22334455", []ordering.OrderLine{
			{ID: uuid.New(), SKUID: uuid.New(), SKUCode: "WID-001", SKUName: "Widget", Qty: 12,
				UnitPrice: decimal.NewFromFloat(1.25), LineTotal: decimal.NewFromFloat(15.00)},
		})
		require.NoError(t, err)

		payload, err := builder.Build(order, testRetailer(), map[string]*catalog.SKU{
			"WID-001": testSKU("WID-001", 12, ""),
		}, now)
		require.NoError(t, err)

		assert.Equal(t, "2026-01-20T10:30:00Z", payload.DispatchBy)
	})

	t.Run("honors the requested delivery date", func(t *testing.T) {
		builder := NewPayloadBuilder(config.OrderingConfig{Currency: "GBP", TaxMode: config.TaxModeInclusive})

		requested := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		order, err := ordering.NewOrder(uuid.New(), "RP-20260115-66778899", []ordering.OrderLine{
			{ID: uuid.New(), SKUID: uuid.New(), SKUCode: "WID-001", SKUName: "Widget", Qty: 12,
				UnitPrice: decimal.NewFromFloat(1.25), LineTotal: decimal.NewFromFloat(15.00)},
		})
		require.NoError(t, err)
		order.RequestedDeliveryDate = &requested

		payload, err := builder.Build(order, testRetailer(), map[string]*catalog.SKU{
			"WID-001": testSKU("WID-001", 12, ""),
		}, now)
		require.NoError(t, err)

		assert.Equal(t, "2026-02-01T00:00:00Z", payload.DispatchBy)
	})

	t.Run("attaches PO number and notes", func(t *testing.T) {
		builder := NewPayloadBuilder(config.OrderingConfig{Currency: "GBP", TaxMode: config.TaxModeInclusive})

		order, err := ordering.NewOrder(uuid.New(), "RP-20260115-AABBCCDD", []ordering.OrderLine{
			{ID: uuid.New(), SKUID: uuid.New(), SKUCode: "WID-001", SKUName: "Widget", Qty: 12,
				UnitPrice: decimal.NewFromFloat(1.25), LineTotal: decimal.NewFromFloat(15.00)},
		})
		require.NoError(t, err)
		order.PONumber = "PO-4711"
		order.Notes = "Deliver to rear entrance"

		payload, err := builder.Build(order, testRetailer(), map[string]*catalog.SKU{
			"WID-001": testSKU("WID-001", 12, ""),
		}, now)
		require.NoError(t, err)

		require.Len(t, payload.Notes, 2)
		assert.Contains(t, payload.Notes[0].Note, "PO-4711")
		assert.True(t, payload.Notes[0].IsInternal)
		assert.Equal(t, "Deliver to rear entrance", payload.Notes[1].Note)
		assert.Equal(t, "Deliver to rear entrance", payload.DeliveryNotes)
	})

	t.Run("uses the retailer address for delivery and billing", func(t *testing.T) {
		builder := NewPayloadBuilder(config.OrderingConfig{Currency: "GBP", TaxMode: config.TaxModeInclusive})

		order, err := ordering.NewOrder(uuid.New(), "RP-20260115-11223344", []ordering.OrderLine{
			{ID: uuid.New(), SKUID: uuid.New(), SKUCode: "WID-001", SKUName: "Widget", Qty: 12,
				UnitPrice: decimal.NewFromFloat(1.25), LineTotal: decimal.NewFromFloat(15.00)},
		})
		require.NoError(t, err)

		payload, err := builder.Build(order, testRetailer(), map[string]*catalog.SKU{
			"WID-001": testSKU("WID-001", 12, ""),
		}, now)
		require.NoError(t, err)

		require.NotNil(t, payload.DeliveryAddress)
		assert.Equal(t, "1 High Street", payload.DeliveryAddress.Address1)
		assert.Equal(t, "Leeds", payload.DeliveryAddress.Town)
		assert.Equal(t, "LS1 1AA", payload.DeliveryAddress.PostCode)
		assert.Equal(t, payload.DeliveryAddress, payload.BillingAddress)
	})

	t.Run("rejects a line without a catalog entry", func(t *testing.T) {
		builder := NewPayloadBuilder(config.OrderingConfig{Currency: "GBP", TaxMode: config.TaxModeInclusive})

		order, err := ordering.NewOrder(uuid.New(), "RP-20260115-55667788", []ordering.OrderLine{
			{ID: uuid.New(), SKUID: uuid.New(), SKUCode: "GONE-001", SKUName: "Gone", Qty: 12,
				UnitPrice: decimal.NewFromFloat(1.25), LineTotal: decimal.NewFromFloat(15.00)},
		})
		require.NoError(t, err)

		_, err = builder.Build(order, testRetailer(), map[string]*catalog.SKU{}, now)
		assert.Error(t, err)
	})
}
