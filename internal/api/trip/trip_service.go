package trip

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/i-am-feyi/ai-travel-planner/app/observability/metrics"
	"github.com/i-am-feyi/ai-travel-planner/internal/types"
)

const (
	recentTripsLimit = 4
	recentTripsKey   = "trips:recent"
)

// Generator produces itinerary text from a prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
	Model() string
}

// TripImageSearcher finds destination imagery for the trip card.
type TripImageSearcher interface {
	SearchTripImages(ctx context.Context, location, travelStyle string) ([]string, error)
}

// ItineraryEnricher settles photo and metadata lookups for every hotel and
// activity in place.
type ItineraryEnricher interface {
	EnrichItinerary(ctx context.Context, itinerary *types.EnrichedItinerary)
}

// Service runs the trip pipeline and the read paths over persisted trips.
type Service interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.CreateTripResponse, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*types.TripDetail, error)
	GetUserTrips(ctx context.Context, userID uuid.UUID) ([]types.TripSummary, error)
	GetRecentTrips(ctx context.Context) ([]types.TripSummary, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger    *slog.Logger
	generator Generator
	images    TripImageSearcher
	enricher  ItineraryEnricher
	repo      Repository
	cache     *cache.Cache
}

func NewServiceImpl(generator Generator, images TripImageSearcher, enricher ItineraryEnricher,
	repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		generator: generator,
		images:    images,
		enricher:  enricher,
		repo:      repo,
		cache:     cache.New(2*time.Minute, 10*time.Minute),
	}
}

// CreateTrip runs the pipeline end to end: prompt, generation, destination
// images, per-entity enrichment, then one transactional insert. Generation
// and persistence failures abort; image stages only degrade.
func (s *ServiceImpl) CreateTrip(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.CreateTripResponse, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("trip.location", req.Location),
		attribute.Int("trip.days", req.NumberOfDays),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateTrip"), slog.String("userID", userID.String()))
	if m := metrics.Get(); m != nil {
		m.TripRequestsTotal.Add(ctx, 1)
	}

	prompt := BuildTripPrompt(req)

	genStart := time.Now()
	responseText, err := s.generator.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if m := metrics.Get(); m != nil {
		m.TripGenerationSeconds.Record(ctx, time.Since(genStart).Seconds())
	}
	if err != nil {
		l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Itinerary generation failed")
		s.recordGenerationFailure(ctx)
		return nil, fmt.Errorf("%w: %w", types.ErrUpstreamGeneration, err)
	}

	itinerary, err := ParseItinerary(responseText, req.NumberOfDays)
	if err != nil {
		l.ErrorContext(ctx, "Model output unusable",
			slog.String("model", s.generator.Model()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model output unusable")
		s.recordGenerationFailure(ctx)
		return nil, fmt.Errorf("%w: %w", types.ErrUpstreamGeneration, err)
	}

	// Destination imagery is cosmetic. A provider outage means a trip with no
	// cover images, not a failed trip.
	imageURLs, err := s.images.SearchTripImages(ctx, req.Location, req.TravelStyle)
	if err != nil {
		l.WarnContext(ctx, "Destination image search failed, continuing without images",
			slog.Any("error", err))
		imageURLs = nil
	}

	s.enricher.EnrichItinerary(ctx, itinerary)

	persistStart := time.Now()
	tripID, err := s.repo.CreateTrip(ctx, userID, imageURLs, itinerary)
	if m := metrics.Get(); m != nil {
		m.PersistDurationSeconds.Record(ctx, time.Since(persistStart).Seconds())
	}
	if err != nil {
		l.ErrorContext(ctx, "Trip persistence failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip persistence failed")
		if m := metrics.Get(); m != nil {
			m.PersistenceFailuresTotal.Add(ctx, 1)
		}
		return nil, err
	}

	s.cache.Delete(recentTripsKey)

	l.InfoContext(ctx, "Trip created", slog.String("tripID", tripID.String()))
	span.SetAttributes(attribute.String("trip.id", tripID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	return &types.CreateTripResponse{Success: true, TripID: tripID.String()}, nil
}

func (s *ServiceImpl) recordGenerationFailure(ctx context.Context) {
	if m := metrics.Get(); m != nil {
		m.GenerationFailuresTotal.Add(ctx, 1)
	}
}

func (s *ServiceImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (*types.TripDetail, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	detail, err := s.repo.GetTripByID(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch trip")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Trip fetched")
	return detail, nil
}

func (s *ServiceImpl) GetUserTrips(ctx context.Context, userID uuid.UUID) ([]types.TripSummary, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetUserTrips", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	summaries, err := s.repo.ListTripsByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list user trips")
		return nil, err
	}
	span.SetStatus(codes.Ok, "User trips listed")
	return summaries, nil
}

// GetRecentTrips serves the public landing page list. Results are cached for
// a couple of minutes and the cache is dropped whenever a trip is created.
func (s *ServiceImpl) GetRecentTrips(ctx context.Context) ([]types.TripSummary, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetRecentTrips")
	defer span.End()

	if cached, ok := s.cache.Get(recentTripsKey); ok {
		if summaries, ok := cached.([]types.TripSummary); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			span.SetStatus(codes.Ok, "Recent trips served from cache")
			return summaries, nil
		}
	}

	summaries, err := s.repo.ListRecentTrips(ctx, recentTripsLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list recent trips")
		return nil, err
	}

	s.cache.Set(recentTripsKey, summaries, cache.DefaultExpiration)
	span.SetAttributes(attribute.Bool("cache.hit", false))
	span.SetStatus(codes.Ok, "Recent trips listed")
	return summaries, nil
}
