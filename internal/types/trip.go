package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TripRequest is the validated questionnaire payload the pipeline consumes.
// Validation (enum membership, 1-10 days, 1-3 interests) happens at the HTTP
// boundary; the pipeline treats the struct as immutable input.
type TripRequest struct {
	Location     string   `json:"location"`
	GroupType    string   `json:"groupType"`
	NumberOfDays int      `json:"numberOfDays"`
	TravelStyle  string   `json:"travelStyle"`
	Interests    []string `json:"interests"`
	Budget       string   `json:"budget"`
}

// TripOverview mirrors the overview section the model is instructed to emit.
// BestTimeToVisit, WeatherInfo and GeneralLocation are free-shape JSON the
// model keys by season/region; they pass through to jsonb columns untouched.
type TripOverview struct {
	Title               string          `json:"title"`
	Location            string          `json:"location"`
	TravelStyle         string          `json:"travelStyle"`
	GroupType           string          `json:"groupType"`
	Interests           []string        `json:"interests"`
	Budget              string          `json:"budget"`
	NumberOfDays        int             `json:"numberOfDays"`
	Description         []string        `json:"description"`
	EstimatedTotalPrice float64         `json:"estimatedTotalPrice"`
	BestTimeToVisit     json.RawMessage `json:"bestTimeToVisit"`
	WeatherInfo         json.RawMessage `json:"weatherInfo"`
	GeneralLocation     json.RawMessage `json:"generalLocation"`
}

type Hotel struct {
	HotelName              string  `json:"hotelName"`
	Address                string  `json:"address"`
	EstimatedPricePerNight float64 `json:"estimatedPricePerNight"`
	Latitude               float64 `json:"latitude"`
	Longitude              float64 `json:"longitude"`
	Rating                 float64 `json:"rating"`
	Description            string  `json:"description"`
	ImageURL               *string `json:"imageUrl"`
}

type Activity struct {
	PlaceName           string  `json:"placeName"`
	PlaceDetails        string  `json:"placeDetails"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	TicketPrice         float64 `json:"ticketPrice"`
	Rating              float64 `json:"rating"`
	TimeOfDay           string  `json:"timeOfDay"`
	EstimatedTravelTime int     `json:"estimatedTravelTime"`
	ImageURL            *string `json:"imageUrl"`
}

type DayPlan struct {
	Day        int        `json:"day"`
	Location   string     `json:"location"`
	Activities []Activity `json:"activities"`
}

// RawItinerary is the parsed model output. It lives for the duration of one
// request: enrichment rewrites it in place and persistence maps it to rows.
type RawItinerary struct {
	Overview  TripOverview `json:"overview"`
	Hotels    []Hotel      `json:"hotels"`
	Itinerary []DayPlan    `json:"itinerary"`
}

// EnrichedItinerary has the same shape as RawItinerary; the distinct name
// marks that image enrichment has settled for every hotel and activity.
type EnrichedItinerary = RawItinerary

// TripImageSourceUnsplash tags destination images fetched from the stock
// photo provider, matching the source column values the frontend expects.
const TripImageSourceUnsplash = "UNSPLASH"

// TripRecord is the persisted trip row.
type TripRecord struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	Title           string          `json:"title"`
	Description     []string        `json:"description"`
	Location        string          `json:"location"`
	TravelGroup     string          `json:"travelGroup"`
	Style           string          `json:"style"`
	Duration        int             `json:"duration"`
	Budget          string          `json:"budget"`
	EstimatedTotal  int             `json:"estimatedTotal"`
	BestTimeToVisit json.RawMessage `json:"bestTimeToVisit,omitempty"`
	WeatherInfo     json.RawMessage `json:"weatherInfo,omitempty"`
	GeneralLocation json.RawMessage `json:"generalLocation,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type TripImageRecord struct {
	ID       uuid.UUID `json:"id"`
	ImageURL string    `json:"imageUrl"`
	Source   string    `json:"source"`
}

type HotelRecord struct {
	ID uuid.UUID `json:"id"`
	Hotel
}

type ActivityRecord struct {
	ID uuid.UUID `json:"id"`
	Activity
}

type ItineraryDayRecord struct {
	ID         uuid.UUID        `json:"id"`
	DayNumber  int              `json:"dayNumber"`
	Location   string           `json:"location"`
	Activities []ActivityRecord `json:"activities"`
}

// TripDetail is the full nested read returned by GET /trips/{id}.
type TripDetail struct {
	TripRecord
	Images        []TripImageRecord    `json:"tripImages"`
	Hotels        []HotelRecord        `json:"hotels"`
	ItineraryDays []ItineraryDayRecord `json:"itineraryDays"`
}

// TripSummary is the listing shape for GET /trips and GET /trips/recent.
type TripSummary struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Location       string            `json:"location"`
	TravelGroup    string            `json:"travelGroup"`
	Style          string            `json:"style"`
	Duration       int               `json:"duration"`
	EstimatedTotal int               `json:"estimatedTotal"`
	CreatedAt      time.Time         `json:"createdAt"`
	Images         []TripImageRecord `json:"tripImages"`
}

// CreateTripResponse is the success payload of POST /trips.
type CreateTripResponse struct {
	Success bool   `json:"success"`
	TripID  string `json:"tripId"`
}
