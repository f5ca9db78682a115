package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	menutypes "github.com/Apurer/go-gin-storefront/internal/domains/menu/application/types"
	menudomain "github.com/Apurer/go-gin-storefront/internal/domains/menu/domain"
	menuports "github.com/Apurer/go-gin-storefront/internal/domains/menu/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/identity"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/menu/adapters/observability/service"

// Service decorates the menu service with tracing, logging, and metrics.
type Service struct {
	inner   menuports.Service
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

// New wraps the core menu service.
func New(inner menuports.Service, opts ...Option) menuports.Service {
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

func (s *Service) CreateItem(ctx context.Context, caller *identity.Identity, input menutypes.CreateItemInput) (*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.CreateItem", trace.WithAttributes(attribute.String("item.category", input.Category)))
	defer span.End()

	s.logInfo(ctx, "creating menu item", slog.String("item.name", input.Name))
	result, err := s.inner.CreateItem(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create menu item")
	}
	s.logInfo(ctx, "menu item created", slog.String("item.id", result.ID.String()))
	return result, nil
}

func (s *Service) UpdateItem(ctx context.Context, caller *identity.Identity, input menutypes.UpdateItemInput) (*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.UpdateItem", trace.WithAttributes(attribute.String("item.id", input.ID.String())))
	defer span.End()

	result, err := s.inner.UpdateItem(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update menu item", slog.String("item.id", input.ID.String()))
	}
	s.logInfo(ctx, "menu item updated", slog.String("item.id", result.ID.String()), slog.Int("item.stock", result.Stock))
	return result, nil
}

func (s *Service) DeleteItem(ctx context.Context, caller *identity.Identity, input menutypes.ItemIdentifier) error {
	ctx, span := s.tracer.Start(ctx, "MenuService.DeleteItem", trace.WithAttributes(attribute.String("item.id", input.ID.String())))
	defer span.End()

	if err := s.inner.DeleteItem(ctx, caller, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete menu item", slog.String("item.id", input.ID.String()))
	}
	s.logInfo(ctx, "menu item deleted", slog.String("item.id", input.ID.String()))
	return nil
}

func (s *Service) GetItem(ctx context.Context, input menutypes.ItemIdentifier) (*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.GetItem", trace.WithAttributes(attribute.String("item.id", input.ID.String())))
	defer span.End()

	result, err := s.inner.GetItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load menu item", slog.String("item.id", input.ID.String()))
	}
	return result, nil
}

func (s *Service) ListItems(ctx context.Context, input menutypes.ListItemsInput) ([]*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.ListItems",
		trace.WithAttributes(attribute.String("filter.category", input.Category), attribute.Int("filter.ids", len(input.IDs))))
	defer span.End()

	result, err := s.inner.ListItems(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list menu items")
	}
	span.SetAttributes(attribute.Int("items.count", len(result)))
	return result, nil
}

func (s *Service) SubmitReview(ctx context.Context, caller *identity.Identity, input menutypes.SubmitReviewInput) (*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.SubmitReview",
		trace.WithAttributes(attribute.String("item.id", input.ItemID.String()), attribute.Int("review.rating", input.Rating)))
	defer span.End()

	result, err := s.inner.SubmitReview(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to submit review", slog.String("item.id", input.ItemID.String()))
	}
	s.metrics.recordReview(ctx, input.Rating)
	s.logInfo(ctx, "review submitted",
		slog.String("item.id", result.ID.String()),
		slog.Float64("rating.average", result.Rating.Average),
		slog.Int("rating.count", result.Rating.Count))
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

type serviceMetrics struct {
	reviewsSubmitted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	reviews, _ := m.Int64Counter("menu.service.reviews_submitted", metric.WithDescription("Number of reviews accepted"))
	return serviceMetrics{reviewsSubmitted: reviews}
}

func (m serviceMetrics) recordReview(ctx context.Context, rating int) {
	if m.reviewsSubmitted != nil {
		m.reviewsSubmitted.Add(ctx, 1, metric.WithAttributes(attribute.Int("review.rating", rating)))
	}
}

var _ menuports.Service = (*Service)(nil)
