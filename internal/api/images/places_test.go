package images

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPlace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/places:searchText", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, placesFieldMask, r.Header.Get("X-Goog-FieldMask"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]string
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "Castelo de Sao Jorge", req["textQuery"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"places": [{
			"displayName": {"text": "Castelo de S. Jorge"},
			"formattedAddress": "R. de Santa Cruz do Castelo, Lisboa",
			"rating": 4.6,
			"location": {"latitude": 38.7139, "longitude": -9.1335},
			"photos": [{"name": "places/abc/photos/first"}, {"name": "places/abc/photos/second"}]
		}]}`))
	}))
	defer server.Close()

	client := NewPlacesClient(server.URL, "test-api-key", 5*time.Second, 1900, 1000)

	place, err := client.SearchPlace(context.Background(), "Castelo de Sao Jorge")
	require.NoError(t, err)
	require.NotNil(t, place)
	assert.Equal(t, "Castelo de S. Jorge", place.DisplayName)
	assert.Equal(t, "R. de Santa Cruz do Castelo, Lisboa", place.FormattedAddress)
	assert.Equal(t, 4.6, place.Rating)
	require.NotNil(t, place.Latitude)
	assert.Equal(t, 38.7139, *place.Latitude)
	// First photo wins.
	assert.Equal(t, "places/abc/photos/first", place.PhotoName)
}

func TestSearchPlace_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewPlacesClient(server.URL, "key", 5*time.Second, 1900, 1000)

	place, err := client.SearchPlace(context.Background(), "no such place")
	require.NoError(t, err)
	assert.Nil(t, place)
}

func TestSearchPlace_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewPlacesClient(server.URL, "key", 5*time.Second, 1900, 1000)

	_, err := client.SearchPlace(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestPhotoURL(t *testing.T) {
	client := NewPlacesClient("https://places.googleapis.com", "test-api-key", time.Second, 1900, 1000)

	url := client.PhotoURL("places/abc/photos/first")
	assert.Equal(t,
		"https://places.googleapis.com/v1/places/abc/photos/first/media?maxHeightPx=1000&maxWidthPx=1900&key=test-api-key",
		url)
}
