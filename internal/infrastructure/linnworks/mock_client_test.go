package linnworks

import (
	"context"
	"testing"

	"github.com/retailportal/backend/internal/domain/erp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMockClient(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts orders and remembers them", func(t *testing.T) {
		client := NewMockClient(zap.NewNop())

		results, err := client.CreateOrders(ctx, []erp.OrderPayload{
			{ReferenceNumber: "RP-20260115-AB12CD34"},
			{ReferenceNumber: "RP-20260115-99887766"},
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, result := range results {
			assert.True(t, result.Success)
			assert.NotEmpty(t, result.ErpOrderID)
		}
		assert.NotEqual(t, results[0].ErpOrderID, results[1].ErpOrderID)
		assert.Len(t, client.SentOrders(), 2)
	})

	t.Run("returns details for known ids only", func(t *testing.T) {
		client := NewMockClient(zap.NewNop())

		results, err := client.CreateOrders(ctx, []erp.OrderPayload{{ReferenceNumber: "REF-1"}})
		require.NoError(t, err)

		infos, err := client.GetOrdersByID(ctx, []string{results[0].ErpOrderID, "unknown-id"})
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, "REF-1", infos[0].ReferenceNumber)
	})

	t.Run("reports processed orders after MarkProcessed", func(t *testing.T) {
		client := NewMockClient(zap.NewNop())

		results, err := client.CreateOrders(ctx, []erp.OrderPayload{{ReferenceNumber: "REF-1"}})
		require.NoError(t, err)
		id := results[0].ErpOrderID

		processed, err := client.GetProcessedOrderIDs(ctx, []string{id})
		require.NoError(t, err)
		assert.Empty(t, processed)

		client.MarkProcessed(id)
		processed, err = client.GetProcessedOrderIDs(ctx, []string{id})
		require.NoError(t, err)
		assert.Equal(t, []string{id}, processed)
	})
}
