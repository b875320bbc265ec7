package trip

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/i-am-feyi/ai-travel-planner/internal/types"
)

// MockGenerator is a mock implementation of Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) Model() string {
	args := m.Called()
	return args.String(0)
}

// MockImageSearcher is a mock implementation of TripImageSearcher
type MockImageSearcher struct {
	mock.Mock
}

func (m *MockImageSearcher) SearchTripImages(ctx context.Context, location, travelStyle string) ([]string, error) {
	args := m.Called(ctx, location, travelStyle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockEnricher is a mock implementation of ItineraryEnricher
type MockEnricher struct {
	mock.Mock
}

func (m *MockEnricher) EnrichItinerary(ctx context.Context, itinerary *types.EnrichedItinerary) {
	m.Called(ctx, itinerary)
}

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTrip(ctx context.Context, userID uuid.UUID, imageURLs []string, itinerary *types.EnrichedItinerary) (uuid.UUID, error) {
	args := m.Called(ctx, userID, imageURLs, itinerary)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) GetTripByID(ctx context.Context, tripID uuid.UUID) (*types.TripDetail, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripDetail), args.Error(1)
}

func (m *MockRepository) ListTripsByUser(ctx context.Context, userID uuid.UUID) ([]types.TripSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TripSummary), args.Error(1)
}

func (m *MockRepository) ListRecentTrips(ctx context.Context, limit int) ([]types.TripSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TripSummary), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRequest() types.TripRequest {
	return types.TripRequest{
		Location:     "Lisbon, Portugal",
		GroupType:    "Couple",
		NumberOfDays: 2,
		TravelStyle:  "Relaxed",
		Interests:    []string{"Food & Culinary"},
		Budget:       "Mid-range",
	}
}

func TestServiceCreateTrip_Success(t *testing.T) {
	generator := new(MockGenerator)
	imageSearcher := new(MockImageSearcher)
	enricher := new(MockEnricher)
	repo := new(MockRepository)
	service := NewServiceImpl(generator, imageSearcher, enricher, repo, testLogger())

	userID := uuid.New()
	tripID := uuid.New()
	imageURLs := []string{"https://images.example/lisbon-1", "https://images.example/lisbon-2"}

	generator.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("```json\n"+validItineraryJSON+"\n```", nil)
	imageSearcher.On("SearchTripImages", mock.Anything, "Lisbon, Portugal", "Relaxed").
		Return(imageURLs, nil)
	enricher.On("EnrichItinerary", mock.Anything, mock.AnythingOfType("*types.RawItinerary")).Return()
	repo.On("CreateTrip", mock.Anything, userID, imageURLs, mock.AnythingOfType("*types.RawItinerary")).
		Return(tripID, nil)

	resp, err := service.CreateTrip(context.Background(), userID, testRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, tripID.String(), resp.TripID)

	generator.AssertExpectations(t)
	imageSearcher.AssertExpectations(t)
	enricher.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestServiceCreateTrip_GenerationFailureAbortsPipeline(t *testing.T) {
	generator := new(MockGenerator)
	imageSearcher := new(MockImageSearcher)
	enricher := new(MockEnricher)
	repo := new(MockRepository)
	service := NewServiceImpl(generator, imageSearcher, enricher, repo, testLogger())

	generator.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("upstream 503"))

	resp, err := service.CreateTrip(context.Background(), uuid.New(), testRequest())
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, types.ErrUpstreamGeneration))

	// No later stage runs once generation fails.
	imageSearcher.AssertNotCalled(t, "SearchTripImages", mock.Anything, mock.Anything, mock.Anything)
	enricher.AssertNotCalled(t, "EnrichItinerary", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateTrip", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceCreateTrip_UnusableModelOutput(t *testing.T) {
	generator := new(MockGenerator)
	imageSearcher := new(MockImageSearcher)
	enricher := new(MockEnricher)
	repo := new(MockRepository)
	service := NewServiceImpl(generator, imageSearcher, enricher, repo, testLogger())

	generator.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("I cannot help with that.", nil)
	generator.On("Model").Return("gemini-2.0-flash")

	_, err := service.CreateTrip(context.Background(), uuid.New(), testRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUpstreamGeneration))
	assert.True(t, errors.Is(err, types.ErrMalformedModelOutput))

	repo.AssertNotCalled(t, "CreateTrip", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceCreateTrip_ImageSearchFailureDegrades(t *testing.T) {
	generator := new(MockGenerator)
	imageSearcher := new(MockImageSearcher)
	enricher := new(MockEnricher)
	repo := new(MockRepository)
	service := NewServiceImpl(generator, imageSearcher, enricher, repo, testLogger())

	userID := uuid.New()
	tripID := uuid.New()

	generator.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(validItineraryJSON, nil)
	imageSearcher.On("SearchTripImages", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited"))
	enricher.On("EnrichItinerary", mock.Anything, mock.Anything).Return()
	repo.On("CreateTrip", mock.Anything, userID, []string(nil), mock.Anything).
		Return(tripID, nil)

	resp, err := service.CreateTrip(context.Background(), userID, testRequest())
	require.NoError(t, err)
	assert.Equal(t, tripID.String(), resp.TripID)
	repo.AssertExpectations(t)
}

func TestServiceCreateTrip_PersistenceFailure(t *testing.T) {
	generator := new(MockGenerator)
	imageSearcher := new(MockImageSearcher)
	enricher := new(MockEnricher)
	repo := new(MockRepository)
	service := NewServiceImpl(generator, imageSearcher, enricher, repo, testLogger())

	generator.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(validItineraryJSON, nil)
	imageSearcher.On("SearchTripImages", mock.Anything, mock.Anything, mock.Anything).
		Return([]string{}, nil)
	enricher.On("EnrichItinerary", mock.Anything, mock.Anything).Return()
	repo.On("CreateTrip", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(uuid.Nil, types.ErrPersistenceFailed)

	resp, err := service.CreateTrip(context.Background(), uuid.New(), testRequest())
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, types.ErrPersistenceFailed))
}

func TestServiceGetRecentTrips_CachesAndInvalidates(t *testing.T) {
	generator := new(MockGenerator)
	imageSearcher := new(MockImageSearcher)
	enricher := new(MockEnricher)
	repo := new(MockRepository)
	service := NewServiceImpl(generator, imageSearcher, enricher, repo, testLogger())

	summaries := []types.TripSummary{{ID: uuid.New(), Title: "Three Days in Lisbon"}}
	repo.On("ListRecentTrips", mock.Anything, recentTripsLimit).Return(summaries, nil).Once()

	first, err := service.GetRecentTrips(context.Background())
	require.NoError(t, err)
	second, err := service.GetRecentTrips(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "ListRecentTrips", 1)

	// A successful create drops the cache and the next read hits the repo.
	userID := uuid.New()
	generator.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(validItineraryJSON, nil)
	imageSearcher.On("SearchTripImages", mock.Anything, mock.Anything, mock.Anything).
		Return([]string{}, nil)
	enricher.On("EnrichItinerary", mock.Anything, mock.Anything).Return()
	repo.On("CreateTrip", mock.Anything, userID, mock.Anything, mock.Anything).
		Return(uuid.New(), nil)
	_, err = service.CreateTrip(context.Background(), userID, testRequest())
	require.NoError(t, err)

	repo.On("ListRecentTrips", mock.Anything, recentTripsLimit).Return(summaries, nil).Once()
	_, err = service.GetRecentTrips(context.Background())
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "ListRecentTrips", 2)
}

func TestServiceGetTrip_NotFound(t *testing.T) {
	repo := new(MockRepository)
	service := NewServiceImpl(new(MockGenerator), new(MockImageSearcher), new(MockEnricher), repo, testLogger())

	tripID := uuid.New()
	repo.On("GetTripByID", mock.Anything, tripID).Return(nil, types.ErrTripNotFound)

	_, err := service.GetTrip(context.Background(), tripID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTripNotFound))
}
