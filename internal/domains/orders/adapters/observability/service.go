package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(attribute.Int("order.lines", len(input.Lines)), attribute.Bool("order.anonymous", input.CustomerID == "")))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int("order.lines", len(input.Lines)), slog.String("customer.id", input.CustomerID))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, rejectionReason(err))
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("reason", rejectionReason(err)))
	}
	span.SetAttributes(attribute.String("order.id", result.ID.String()), attribute.String("order.total", result.Total.String()))
	s.metrics.recordPlaced(ctx, result.Status)
	s.logInfo(ctx, "order placed", slog.String("order.id", result.ID.String()), slog.String("order.total", result.Total.String()))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, caller *identity.Identity, input ordertypes.OrderIdentifier) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.String("order.id", input.ID.String())))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.ID.String()))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, caller *identity.Identity) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) ListMyOrders(ctx context.Context, caller *identity.Identity) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListMyOrders")
	defer span.End()

	result, err := s.inner.ListMyOrders(ctx, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customer orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, caller *identity.Identity, input ordertypes.UpdateStatusInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateStatus",
		trace.WithAttributes(attribute.String("order.id", input.OrderID.String()), attribute.String("order.status", input.Status)))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", input.OrderID.String()), slog.String("status", input.Status))
	result, err := s.inner.UpdateStatus(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", input.OrderID.String()))
	}
	s.logInfo(ctx, "order status updated", slog.String("order.id", result.ID.String()), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CancelOrder", trace.WithAttributes(attribute.String("order.id", input.ID.String())))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.String("order.id", input.ID.String()))
	result, err := s.inner.CancelOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", input.ID.String()))
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, orderapp.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, orderapp.ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, orderapp.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return "idempotency_conflict"
	case errors.Is(err, orderapp.ErrPaymentFailed):
		return "payment_failed"
	default:
		return "internal"
	}
}

// NewCompensationObserver logs and counts every stock restoration performed
// after a failed commit.
func NewCompensationObserver(logger *slog.Logger, m metric.Meter) orderapp.CompensationObserver {
	metrics := newServiceMetrics(m)
	return func(ctx context.Context, line orderdomain.Line, err error) {
		metrics.recordCompensation(ctx, err == nil)
		if logger == nil {
			return
		}
		attrs := []slog.Attr{slog.String("item.id", line.ItemID.String()), slog.Int("quantity", line.Quantity)}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
			logger.LogAttrs(ctx, slog.LevelError, "stock restoration failed", attrs...)
			return
		}
		logger.LogAttrs(ctx, slog.LevelWarn, "stock restored after failed commit", attrs...)
	}
}

type serviceMetrics struct {
	ordersPlaced       metric.Int64Counter
	ordersRejected     metric.Int64Counter
	stockCompensations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders committed"))
	ordersRejected, _ := m.Int64Counter("orders.service.orders_rejected", metric.WithDescription("Number of orders rejected"))
	compensations, _ := m.Int64Counter("orders.service.stock_compensations", metric.WithDescription("Number of stock deductions reversed"))
	return serviceMetrics{ordersPlaced: ordersPlaced, ordersRejected: ordersRejected, stockCompensations: compensations}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, status orderdomain.Status) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, reason string) {
	if m.ordersRejected != nil {
		m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

func (m serviceMetrics) recordCompensation(ctx context.Context, restored bool) {
	if m.stockCompensations != nil {
		m.stockCompensations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("restored", restored)))
	}
}

var _ orderports.Service = (*Service)(nil)
