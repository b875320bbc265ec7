package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/i-am-feyi/ai-travel-planner/internal/types"
)

// DBPool is the slice of pgxpool.Pool the repository uses. Narrowed to an
// interface so tests can drive it with pgxmock.
type DBPool interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists and reads trips with their nested images, hotels, days
// and activities.
type Repository interface {
	// CreateTrip inserts the whole itinerary in one transaction and returns
	// the new trip id. On any failure nothing is persisted.
	CreateTrip(ctx context.Context, userID uuid.UUID, imageURLs []string, itinerary *types.EnrichedItinerary) (uuid.UUID, error)
	GetTripByID(ctx context.Context, tripID uuid.UUID) (*types.TripDetail, error)
	ListTripsByUser(ctx context.Context, userID uuid.UUID) ([]types.TripSummary, error)
	ListRecentTrips(ctx context.Context, limit int) ([]types.TripSummary, error)
}

// Ensure implementation satisfies the interface
var _ Repository = (*RepositoryImpl)(nil)

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool DBPool
}

func NewRepositoryImpl(pgpool DBPool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

// jsonbArg maps an optional raw JSON document to a jsonb parameter, with
// absent documents stored as NULL rather than empty strings.
func jsonbArg(m []byte) any {
	if len(m) == 0 {
		return nil
	}
	return m
}

func (r *RepositoryImpl) CreateTrip(ctx context.Context, userID uuid.UUID, imageURLs []string, itinerary *types.EnrichedItinerary) (uuid.UUID, error) {
	ctx, span := otel.Tracer("TripRepository").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("hotels.count", len(itinerary.Hotels)),
		attribute.Int("days.count", len(itinerary.Itinerary)),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateTrip"), slog.String("userID", userID.String()))

	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		l.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to begin transaction")
		return uuid.Nil, fmt.Errorf("%w: begin transaction: %w", types.ErrPersistenceFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	overview := itinerary.Overview

	var tripID uuid.UUID
	err = tx.QueryRow(ctx, `
        INSERT INTO trips (user_id, title, description, location, travel_group, style,
                           duration, budget, estimated_total,
                           best_time_to_visit, weather_info, general_location)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id`,
		userID, overview.Title, overview.Description, overview.Location,
		overview.GroupType, overview.TravelStyle, overview.NumberOfDays, overview.Budget,
		int(math.Round(overview.EstimatedTotalPrice)),
		jsonbArg(overview.BestTimeToVisit), jsonbArg(overview.WeatherInfo), jsonbArg(overview.GeneralLocation),
	).Scan(&tripID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to insert trip")
		return uuid.Nil, fmt.Errorf("%w: insert trip: %w", types.ErrPersistenceFailed, err)
	}

	for _, imageURL := range imageURLs {
		if _, err = tx.Exec(ctx, `
            INSERT INTO trip_images (trip_id, image_url, source)
            VALUES ($1, $2, $3)`,
			tripID, imageURL, types.TripImageSourceUnsplash,
		); err != nil {
			l.ErrorContext(ctx, "Failed to insert trip image", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to insert trip image")
			return uuid.Nil, fmt.Errorf("%w: insert trip image: %w", types.ErrPersistenceFailed, err)
		}
	}

	for _, hotel := range itinerary.Hotels {
		if _, err = tx.Exec(ctx, `
            INSERT INTO hotels (trip_id, hotel_name, address, estimated_price_per_night,
                                latitude, longitude, rating, description, image_url)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			tripID, hotel.HotelName, hotel.Address, hotel.EstimatedPricePerNight,
			hotel.Latitude, hotel.Longitude, hotel.Rating, hotel.Description, hotel.ImageURL,
		); err != nil {
			l.ErrorContext(ctx, "Failed to insert hotel", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to insert hotel")
			return uuid.Nil, fmt.Errorf("%w: insert hotel: %w", types.ErrPersistenceFailed, err)
		}
	}

	for _, day := range itinerary.Itinerary {
		var dayID uuid.UUID
		err = tx.QueryRow(ctx, `
            INSERT INTO itinerary_days (trip_id, day_number, location)
            VALUES ($1, $2, $3)
            RETURNING id`,
			tripID, day.Day, day.Location,
		).Scan(&dayID)
		if err != nil {
			l.ErrorContext(ctx, "Failed to insert itinerary day",
				slog.Int("day", day.Day), slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to insert itinerary day")
			return uuid.Nil, fmt.Errorf("%w: insert itinerary day %d: %w", types.ErrPersistenceFailed, day.Day, err)
		}

		for _, activity := range day.Activities {
			if _, err = tx.Exec(ctx, `
                INSERT INTO activities (itinerary_day_id, place_name, place_details,
                                        latitude, longitude, ticket_price, rating,
                                        time_of_day, estimated_travel_time, image_url)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				dayID, activity.PlaceName, activity.PlaceDetails,
				activity.Latitude, activity.Longitude, activity.TicketPrice, activity.Rating,
				activity.TimeOfDay, activity.EstimatedTravelTime, activity.ImageURL,
			); err != nil {
				l.ErrorContext(ctx, "Failed to insert activity",
					slog.Int("day", day.Day), slog.String("place", activity.PlaceName), slog.Any("error", err))
				span.RecordError(err)
				span.SetStatus(codes.Error, "Failed to insert activity")
				return uuid.Nil, fmt.Errorf("%w: insert activity: %w", types.ErrPersistenceFailed, err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		l.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to commit transaction")
		return uuid.Nil, fmt.Errorf("%w: commit: %w", types.ErrPersistenceFailed, err)
	}

	l.InfoContext(ctx, "Trip persisted", slog.String("tripID", tripID.String()))
	span.SetAttributes(attribute.String("trip.id", tripID.String()))
	span.SetStatus(codes.Ok, "Trip persisted")
	return tripID, nil
}

func (r *RepositoryImpl) GetTripByID(ctx context.Context, tripID uuid.UUID) (*types.TripDetail, error) {
	ctx, span := otel.Tracer("TripRepository").Start(ctx, "GetTripByID", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	var detail types.TripDetail
	err := r.pgpool.QueryRow(ctx, `
        SELECT id, user_id, title, description, location, travel_group, style,
               duration, budget, estimated_total,
               best_time_to_visit, weather_info, general_location, created_at
        FROM trips
        WHERE id = $1`, tripID,
	).Scan(&detail.ID, &detail.UserID, &detail.Title, &detail.Description,
		&detail.Location, &detail.TravelGroup, &detail.Style, &detail.Duration,
		&detail.Budget, &detail.EstimatedTotal,
		&detail.BestTimeToVisit, &detail.WeatherInfo, &detail.GeneralLocation,
		&detail.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "Trip not found")
			return nil, types.ErrTripNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch trip")
		return nil, fmt.Errorf("fetch trip: %w", err)
	}

	if detail.Images, err = r.fetchTripImages(ctx, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch trip images")
		return nil, err
	}
	if detail.Hotels, err = r.fetchHotels(ctx, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch hotels")
		return nil, err
	}
	if detail.ItineraryDays, err = r.fetchItineraryDays(ctx, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch itinerary days")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	return &detail, nil
}

func (r *RepositoryImpl) fetchTripImages(ctx context.Context, tripID uuid.UUID) ([]types.TripImageRecord, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT id, image_url, source
        FROM trip_images
        WHERE trip_id = $1
        ORDER BY created_at`, tripID)
	if err != nil {
		return nil, fmt.Errorf("fetch trip images: %w", err)
	}
	defer rows.Close()

	images := []types.TripImageRecord{}
	for rows.Next() {
		var img types.TripImageRecord
		if err := rows.Scan(&img.ID, &img.ImageURL, &img.Source); err != nil {
			return nil, fmt.Errorf("scan trip image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *RepositoryImpl) fetchHotels(ctx context.Context, tripID uuid.UUID) ([]types.HotelRecord, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT id, hotel_name, address, estimated_price_per_night,
               latitude, longitude, rating, description, image_url
        FROM hotels
        WHERE trip_id = $1
        ORDER BY created_at`, tripID)
	if err != nil {
		return nil, fmt.Errorf("fetch hotels: %w", err)
	}
	defer rows.Close()

	hotels := []types.HotelRecord{}
	for rows.Next() {
		var h types.HotelRecord
		if err := rows.Scan(&h.ID, &h.HotelName, &h.Address, &h.EstimatedPricePerNight,
			&h.Latitude, &h.Longitude, &h.Rating, &h.Description, &h.ImageURL); err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

func (r *RepositoryImpl) fetchItineraryDays(ctx context.Context, tripID uuid.UUID) ([]types.ItineraryDayRecord, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT id, day_number, location
        FROM itinerary_days
        WHERE trip_id = $1
        ORDER BY day_number`, tripID)
	if err != nil {
		return nil, fmt.Errorf("fetch itinerary days: %w", err)
	}
	defer rows.Close()

	days := []types.ItineraryDayRecord{}
	dayIndex := map[uuid.UUID]int{}
	for rows.Next() {
		var day types.ItineraryDayRecord
		if err := rows.Scan(&day.ID, &day.DayNumber, &day.Location); err != nil {
			return nil, fmt.Errorf("scan itinerary day: %w", err)
		}
		day.Activities = []types.ActivityRecord{}
		dayIndex[day.ID] = len(days)
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	actRows, err := r.pgpool.Query(ctx, `
        SELECT a.id, a.itinerary_day_id, a.place_name, a.place_details,
               a.latitude, a.longitude, a.ticket_price, a.rating,
               a.time_of_day, a.estimated_travel_time, a.image_url
        FROM activities a
        JOIN itinerary_days d ON d.id = a.itinerary_day_id
        WHERE d.trip_id = $1
        ORDER BY d.day_number, a.created_at`, tripID)
	if err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}
	defer actRows.Close()

	for actRows.Next() {
		var (
			act   types.ActivityRecord
			dayID uuid.UUID
		)
		if err := actRows.Scan(&act.ID, &dayID, &act.PlaceName, &act.PlaceDetails,
			&act.Latitude, &act.Longitude, &act.TicketPrice, &act.Rating,
			&act.TimeOfDay, &act.EstimatedTravelTime, &act.ImageURL); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if idx, ok := dayIndex[dayID]; ok {
			days[idx].Activities = append(days[idx].Activities, act)
		}
	}
	return days, actRows.Err()
}

func (r *RepositoryImpl) ListTripsByUser(ctx context.Context, userID uuid.UUID) ([]types.TripSummary, error) {
	ctx, span := otel.Tracer("TripRepository").Start(ctx, "ListTripsByUser", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	summaries, err := r.querySummaries(ctx, `
        SELECT id, title, location, travel_group, style, duration, estimated_total, created_at
        FROM trips
        WHERE user_id = $1
        ORDER BY created_at DESC`, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list user trips")
		return nil, err
	}

	span.SetAttributes(attribute.Int("trips.count", len(summaries)))
	span.SetStatus(codes.Ok, "User trips listed")
	return summaries, nil
}

func (r *RepositoryImpl) ListRecentTrips(ctx context.Context, limit int) ([]types.TripSummary, error) {
	ctx, span := otel.Tracer("TripRepository").Start(ctx, "ListRecentTrips", trace.WithAttributes(
		attribute.Int("limit", limit),
	))
	defer span.End()

	summaries, err := r.querySummaries(ctx, `
        SELECT id, title, location, travel_group, style, duration, estimated_total, created_at
        FROM trips
        ORDER BY created_at DESC
        LIMIT $1`, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list recent trips")
		return nil, err
	}

	span.SetAttributes(attribute.Int("trips.count", len(summaries)))
	span.SetStatus(codes.Ok, "Recent trips listed")
	return summaries, nil
}

// querySummaries runs a trip listing query and attaches each trip's images
// with a single follow-up query over all returned ids.
func (r *RepositoryImpl) querySummaries(ctx context.Context, sql string, args ...any) ([]types.TripSummary, error) {
	rows, err := r.pgpool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	summaries := []types.TripSummary{}
	index := map[uuid.UUID]int{}
	ids := []uuid.UUID{}
	for rows.Next() {
		var s types.TripSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Location, &s.TravelGroup,
			&s.Style, &s.Duration, &s.EstimatedTotal, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trip summary: %w", err)
		}
		s.Images = []types.TripImageRecord{}
		index[s.ID] = len(summaries)
		summaries = append(summaries, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return summaries, nil
	}

	imgRows, err := r.pgpool.Query(ctx, `
        SELECT id, trip_id, image_url, source
        FROM trip_images
        WHERE trip_id = ANY($1)
        ORDER BY created_at`, ids)
	if err != nil {
		return nil, fmt.Errorf("list trip images: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var (
			img    types.TripImageRecord
			tripID uuid.UUID
		)
		if err := imgRows.Scan(&img.ID, &tripID, &img.ImageURL, &img.Source); err != nil {
			return nil, fmt.Errorf("scan trip image: %w", err)
		}
		if idx, ok := index[tripID]; ok {
			summaries[idx].Images = append(summaries[idx].Images, img)
		}
	}
	return summaries, imgRows.Err()
}
