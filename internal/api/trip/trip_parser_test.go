package trip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i-am-feyi/ai-travel-planner/internal/types"
)

const validItineraryJSON = `{
	"overview": {
		"title": "Three Days in Lisbon",
		"location": "Lisbon, Portugal",
		"travelStyle": "Relaxed",
		"groupType": "Couple",
		"interests": ["Food & Culinary"],
		"budget": "Mid-range",
		"numberOfDays": 2,
		"description": ["Lisbon is a hilly coastal capital.", "Two slow days of food and views."],
		"estimatedTotalPrice": 900,
		"bestTimeToVisit": {"spring": "Mild and sunny"},
		"weatherInfo": {"summer": "25-35C, dry"},
		"generalLocation": {"cityOrRegionName": "Lisbon"}
	},
	"hotels": [
		{
			"hotelName": "Hotel Avenida",
			"address": "Av. da Liberdade 1",
			"estimatedPricePerNight": 120,
			"latitude": 38.72,
			"longitude": -9.14,
			"rating": 4.4,
			"description": "Central and quiet."
		}
	],
	"itinerary": [
		{
			"day": 1,
			"location": "Alfama",
			"activities": [
				{
					"placeName": "Castelo de Sao Jorge",
					"placeDetails": "Moorish castle over the old town.",
					"latitude": 38.71,
					"longitude": -9.13,
					"ticketPrice": 15,
					"rating": 4.6,
					"timeOfDay": "Morning",
					"estimatedTravelTime": 20
				}
			]
		},
		{
			"day": 2,
			"location": "Belem",
			"activities": []
		}
	]
}`

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "no fence",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "\n\n  ```json\n{\"a\": 1}\n```  \n",
			expected: `{"a": 1}`,
		},
		{
			name:     "fence markers inside body survive",
			input:    `{"a": "` + "```" + `"}`,
			expected: `{"a": "` + "```" + `"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONResponse(tt.input))
		})
	}
}

func TestCleanJSONResponse_Idempotent(t *testing.T) {
	once := CleanJSONResponse("```json\n{\"a\": 1}\n```")
	assert.Equal(t, once, CleanJSONResponse(once))
}

func TestParseItinerary_Success(t *testing.T) {
	itinerary, err := ParseItinerary("```json\n"+validItineraryJSON+"\n```", 2)
	require.NoError(t, err)

	assert.Equal(t, "Three Days in Lisbon", itinerary.Overview.Title)
	assert.Len(t, itinerary.Hotels, 1)
	assert.Len(t, itinerary.Itinerary, 2)
	assert.Equal(t, "Castelo de Sao Jorge", itinerary.Itinerary[0].Activities[0].PlaceName)
	assert.Nil(t, itinerary.Hotels[0].ImageURL)
}

func TestParseItinerary_NotJSON(t *testing.T) {
	_, err := ParseItinerary("I'm sorry, I cannot generate an itinerary for that.", 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMalformedModelOutput))
	assert.False(t, errors.Is(err, types.ErrSchemaViolation))
}

func TestParseItinerary_WrongDayCount(t *testing.T) {
	_, err := ParseItinerary(validItineraryJSON, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSchemaViolation))
	assert.False(t, errors.Is(err, types.ErrMalformedModelOutput))
}

func TestParseItinerary_NonContiguousDays(t *testing.T) {
	raw := `{
		"overview": {"title": "T", "location": "L"},
		"hotels": [{"hotelName": "H"}],
		"itinerary": [
			{"day": 1, "location": "A", "activities": []},
			{"day": 3, "location": "B", "activities": []}
		]
	}`
	_, err := ParseItinerary(raw, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSchemaViolation))
}

func TestParseItinerary_MissingOverview(t *testing.T) {
	raw := `{
		"hotels": [{"hotelName": "H"}],
		"itinerary": [{"day": 1, "location": "A", "activities": []}]
	}`
	_, err := ParseItinerary(raw, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSchemaViolation))
}

func TestParseItinerary_NoHotels(t *testing.T) {
	raw := `{
		"overview": {"title": "T", "location": "L"},
		"hotels": [],
		"itinerary": [{"day": 1, "location": "A", "activities": []}]
	}`
	_, err := ParseItinerary(raw, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSchemaViolation))
}
