package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/it-literature-shop/internal/domains/orders/application/types"
	"github.com/Apurer/it-literature-shop/internal/domains/orders/domain"
	orderports "github.com/Apurer/it-literature-shop/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/it-literature-shop/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
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

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(
			attribute.String("user.id", input.UserID),
			attribute.Int("order.lines", len(input.Lines)),
			attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
		))
	defer span.End()

	receipt, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.metrics.recordFailure(ctx, failureReason(err))
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("user.id", input.UserID))
	}
	span.SetAttributes(attribute.String("order.id", receipt.OrderID), attribute.Int("order.total_quantity", receipt.TotalQuantity))
	s.metrics.recordPlaced(ctx, receipt.TotalQuantity)
	s.logInfo(ctx, "order placed",
		slog.String("order.id", receipt.OrderID),
		slog.String("user.id", input.UserID),
		slog.Int("order.total_quantity", receipt.TotalQuantity),
		slog.String("order.total_price", receipt.TotalPrice.StringFixed(2)),
	)
	return receipt, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*orderports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*orderports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) Statistics(ctx context.Context) (domain.Statistics, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Statistics")
	defer span.End()

	stats, err := s.inner.Statistics(ctx)
	if err != nil {
		return stats, s.handleError(ctx, span, err, "failed to compute statistics")
	}
	span.SetAttributes(attribute.Int64("order.count", stats.TotalTransactions))
	return stats, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrBookNotFound):
		return "book_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return "idempotency_conflict"
	default:
		return "other"
	}
}

type serviceMetrics struct {
	placed   metric.Int64Counter
	units    metric.Int64Counter
	failures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	units, _ := m.Int64Counter("orders.service.units_sold", metric.WithDescription("Number of book units sold"))
	failures, _ := m.Int64Counter("orders.service.order_failures", metric.WithDescription("Number of rejected orders by reason"))
	return serviceMetrics{placed: placed, units: units, failures: failures}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, quantity int) {
	if m.placed != nil {
		m.placed.Add(ctx, 1)
	}
	if m.units != nil {
		m.units.Add(ctx, int64(quantity))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, reason string) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

var _ orderports.Service = (*Service)(nil)
