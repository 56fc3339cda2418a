package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/it-literature-shop/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/it-literature-shop/internal/domains/catalog/ports"
	"github.com/Apurer/it-literature-shop/internal/shared/projection"
)

const tracerName = "github.com/Apurer/it-literature-shop/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) CreateGenre(ctx context.Context, name string) (*catalogports.GenreProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateGenre", trace.WithAttributes(attribute.String("genre.name", name)))
	defer span.End()

	result, err := s.inner.CreateGenre(ctx, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create genre", slog.String("genre.name", name))
	}
	s.metrics.recordMutation(ctx, "genre", "create")
	s.logInfo(ctx, "genre created", slog.String("genre.id", result.Entity.ID), slog.String("genre.name", result.Entity.Name))
	return result, nil
}

func (s *Service) ListGenres(ctx context.Context) ([]*catalogports.GenreProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListGenres")
	defer span.End()

	result, err := s.inner.ListGenres(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list genres")
	}
	span.SetAttributes(attribute.Int("genre.count", len(result)))
	return result, nil
}

func (s *Service) GetGenre(ctx context.Context, id string) (*catalogports.GenreProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetGenre", trace.WithAttributes(attribute.String("genre.id", id)))
	defer span.End()

	result, err := s.inner.GetGenre(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load genre", slog.String("genre.id", id))
	}
	return result, nil
}

func (s *Service) UpdateGenre(ctx context.Context, input types.UpdateGenreInput) (*catalogports.GenreProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateGenre", trace.WithAttributes(attribute.String("genre.id", input.ID)))
	defer span.End()

	result, err := s.inner.UpdateGenre(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update genre", slog.String("genre.id", input.ID))
	}
	s.metrics.recordMutation(ctx, "genre", "update")
	s.logInfo(ctx, "genre updated", slog.String("genre.id", input.ID), slog.String("genre.name", result.Entity.Name))
	return result, nil
}

func (s *Service) DeleteGenre(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteGenre", trace.WithAttributes(attribute.String("genre.id", id)))
	defer span.End()

	if err := s.inner.DeleteGenre(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete genre", slog.String("genre.id", id))
	}
	s.metrics.recordMutation(ctx, "genre", "delete")
	s.logInfo(ctx, "genre deleted", slog.String("genre.id", id))
	return nil
}

func (s *Service) CreateBook(ctx context.Context, input types.CreateBookInput) (*catalogports.BookProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateBook",
		trace.WithAttributes(attribute.String("book.title", input.Title), attribute.String("book.genre_id", input.GenreID)))
	defer span.End()

	result, err := s.inner.CreateBook(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create book", slog.String("book.title", input.Title))
	}
	s.metrics.recordMutation(ctx, "book", "create")
	s.logInfo(ctx, "book created", slog.String("book.id", result.Entity.ID), slog.String("book.title", result.Entity.Title))
	return result, nil
}

func (s *Service) ListBooks(ctx context.Context, input types.ListBooksInput) (projection.Page[*catalogports.BookProjection], error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListBooks",
		trace.WithAttributes(attribute.Int("page", input.Page), attribute.Int("limit", input.Limit), attribute.String("book.genre_id", input.GenreID)))
	defer span.End()

	result, err := s.inner.ListBooks(ctx, input)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list books")
	}
	span.SetAttributes(attribute.Int("book.count", len(result.Items)), attribute.Int64("book.total", result.Total))
	return result, nil
}

func (s *Service) ListBooksByGenre(ctx context.Context, genreID string, input types.ListBooksInput) (projection.Page[*catalogports.BookProjection], error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListBooksByGenre",
		trace.WithAttributes(attribute.String("book.genre_id", genreID), attribute.Int("page", input.Page), attribute.Int("limit", input.Limit)))
	defer span.End()

	result, err := s.inner.ListBooksByGenre(ctx, genreID, input)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list books by genre", slog.String("book.genre_id", genreID))
	}
	span.SetAttributes(attribute.Int("book.count", len(result.Items)), attribute.Int64("book.total", result.Total))
	return result, nil
}

func (s *Service) GetBook(ctx context.Context, id string) (*catalogports.BookProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetBook", trace.WithAttributes(attribute.String("book.id", id)))
	defer span.End()

	result, err := s.inner.GetBook(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load book", slog.String("book.id", id))
	}
	return result, nil
}

func (s *Service) UpdateBook(ctx context.Context, input types.UpdateBookInput) (*catalogports.BookProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateBook", trace.WithAttributes(attribute.String("book.id", input.ID)))
	defer span.End()

	result, err := s.inner.UpdateBook(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update book", slog.String("book.id", input.ID))
	}
	s.metrics.recordMutation(ctx, "book", "update")
	s.logInfo(ctx, "book updated", slog.String("book.id", input.ID), slog.Int("book.stock_quantity", result.Entity.StockQuantity))
	return result, nil
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteBook", trace.WithAttributes(attribute.String("book.id", id)))
	defer span.End()

	if err := s.inner.DeleteBook(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete book", slog.String("book.id", id))
	}
	s.metrics.recordMutation(ctx, "book", "delete")
	s.logInfo(ctx, "book deleted", slog.String("book.id", id))
	return nil
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

type serviceMetrics struct {
	mutations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("catalog.service.mutations", metric.WithDescription("Number of catalog writes by entity and action"))
	return serviceMetrics{mutations: mutations}
}

func (m serviceMetrics) recordMutation(ctx context.Context, entity, action string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity), attribute.String("action", action)))
	}
}

var _ catalogports.Service = (*Service)(nil)
