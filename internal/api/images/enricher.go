package images

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/i-am-feyi/ai-travel-planner/app/observability/metrics"
	"github.com/i-am-feyi/ai-travel-planner/internal/types"
)

// Enricher attaches place photos and corrected metadata to every hotel and
// activity of an itinerary. Enrichment is best effort: a failed or empty
// lookup degrades that one entity to a nil image URL and never aborts the
// batch, so one flaky lookup cannot discard its siblings' results.
type Enricher struct {
	places PlaceSearcher
	logger *slog.Logger
}

func NewEnricher(places PlaceSearcher, logger *slog.Logger) *Enricher {
	return &Enricher{
		places: places,
		logger: logger,
	}
}

// EnrichItinerary runs all hotel and activity lookups concurrently and waits
// for every one to settle. Each goroutine owns exactly one slice element and
// always returns nil; failures are captured per entity.
func (e *Enricher) EnrichItinerary(ctx context.Context, itinerary *types.EnrichedItinerary) {
	ctx, span := otel.Tracer("ImageEnricher").Start(ctx, "EnrichItinerary", trace.WithAttributes(
		attribute.Int("hotels.count", len(itinerary.Hotels)),
		attribute.Int("days.count", len(itinerary.Itinerary)),
	))
	defer span.End()

	g, ctx := errgroup.WithContext(ctx)

	for i := range itinerary.Hotels {
		hotel := &itinerary.Hotels[i]
		g.Go(func() error {
			e.enrichHotel(ctx, hotel)
			return nil
		})
	}

	for d := range itinerary.Itinerary {
		for a := range itinerary.Itinerary[d].Activities {
			activity := &itinerary.Itinerary[d].Activities[a]
			g.Go(func() error {
				e.enrichActivity(ctx, activity)
				return nil
			})
		}
	}

	// Tasks never return errors; Wait is purely a join point.
	_ = g.Wait()
	span.SetStatus(codes.Ok, "Enrichment settled for all entities")
}

func (e *Enricher) enrichHotel(ctx context.Context, hotel *types.Hotel) {
	if m := metrics.Get(); m != nil {
		m.EnrichmentLookupsTotal.Add(ctx, 1)
	}

	place, err := e.places.SearchPlace(ctx, hotel.HotelName)
	if err != nil {
		e.logger.WarnContext(ctx, "Hotel place lookup failed, keeping model data",
			slog.String("hotel", hotel.HotelName), slog.Any("error", err))
		hotel.ImageURL = nil
		e.recordMiss(ctx)
		return
	}
	if place == nil {
		hotel.ImageURL = nil
		e.recordMiss(ctx)
		return
	}

	if place.FormattedAddress != "" {
		hotel.Address = place.FormattedAddress
	}
	if place.Rating > 0 {
		hotel.Rating = place.Rating
	}
	if place.Latitude != nil && place.Longitude != nil {
		hotel.Latitude = *place.Latitude
		hotel.Longitude = *place.Longitude
	}
	if place.PhotoName != "" {
		photoURL := e.places.PhotoURL(place.PhotoName)
		hotel.ImageURL = &photoURL
	} else {
		hotel.ImageURL = nil
		e.recordMiss(ctx)
	}
}

func (e *Enricher) enrichActivity(ctx context.Context, activity *types.Activity) {
	if m := metrics.Get(); m != nil {
		m.EnrichmentLookupsTotal.Add(ctx, 1)
	}

	place, err := e.places.SearchPlace(ctx, activity.PlaceName)
	if err != nil {
		e.logger.WarnContext(ctx, "Activity place lookup failed, keeping model data",
			slog.String("activity", activity.PlaceName), slog.Any("error", err))
		activity.ImageURL = nil
		e.recordMiss(ctx)
		return
	}
	if place == nil {
		activity.ImageURL = nil
		e.recordMiss(ctx)
		return
	}

	if place.Rating > 0 {
		activity.Rating = place.Rating
	}
	if place.Latitude != nil && place.Longitude != nil {
		activity.Latitude = *place.Latitude
		activity.Longitude = *place.Longitude
	}
	if place.PhotoName != "" {
		photoURL := e.places.PhotoURL(place.PhotoName)
		activity.ImageURL = &photoURL
	} else {
		activity.ImageURL = nil
		e.recordMiss(ctx)
	}
}

func (e *Enricher) recordMiss(ctx context.Context) {
	if m := metrics.Get(); m != nil {
		m.EnrichmentMissesTotal.Add(ctx, 1)
	}
}
