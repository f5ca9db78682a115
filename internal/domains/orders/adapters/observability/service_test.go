package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	menumemory "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/memory"
	ordermemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
)

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestPlaceOrder_RecordsRejection(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	inner := orderapp.NewService(ordermemory.NewRepository(), menumemory.NewRepository())
	svc := New(inner, WithMeter(meter))

	_, err := svc.PlaceOrder(context.Background(), ordertypes.PlaceOrderInput{
		CustomerName: "Uma",
		Lines:        []ordertypes.LineInput{{ItemID: uuid.New(), Quantity: 1}},
	})
	require.ErrorIs(t, err, orderapp.ErrItemNotFound)
	require.Equal(t, int64(1), counterTotal(t, reader, "orders.service.orders_rejected"))
	require.Equal(t, int64(0), counterTotal(t, reader, "orders.service.orders_placed"))
}
