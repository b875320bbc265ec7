package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const placesFieldMask = "places.displayName,places.photos,places.formattedAddress,places.location,places.rating"

// Place is the best-match result of a text search against the places API.
type Place struct {
	DisplayName      string
	FormattedAddress string
	Rating           float64
	Latitude         *float64
	Longitude        *float64
	PhotoName        string
}

// PlaceSearcher is the lookup surface the enricher depends on.
type PlaceSearcher interface {
	// SearchPlace returns the best match for the query, or nil when the
	// provider knows no such place.
	SearchPlace(ctx context.Context, textQuery string) (*Place, error)
	// PhotoURL builds the direct media URL for a photo resource name.
	PhotoURL(photoName string) string
}

var _ PlaceSearcher = (*PlacesClient)(nil)

// PlacesClient calls the Google Places searchText endpoint.
type PlacesClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	maxWidthPx  int
	maxHeightPx int
}

func NewPlacesClient(baseURL, apiKey string, timeout time.Duration, maxWidthPx, maxHeightPx int) *PlacesClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxWidthPx <= 0 {
		maxWidthPx = 1900
	}
	if maxHeightPx <= 0 {
		maxHeightPx = 1000
	}
	return &PlacesClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		maxWidthPx:  maxWidthPx,
		maxHeightPx: maxHeightPx,
	}
}

type placesSearchResponse struct {
	Places []struct {
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string  `json:"formattedAddress"`
		Rating           float64 `json:"rating"`
		Location         *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
		Photos []struct {
			Name string `json:"name"`
		} `json:"photos"`
	} `json:"places"`
}

func (c *PlacesClient) SearchPlace(ctx context.Context, textQuery string) (*Place, error) {
	body, err := json.Marshal(map[string]string{"textQuery": textQuery})
	if err != nil {
		return nil, fmt.Errorf("marshal places request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build places request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", placesFieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places search returned status %d", resp.StatusCode)
	}

	var payload placesSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}

	if len(payload.Places) == 0 {
		return nil, nil
	}

	best := payload.Places[0]
	place := &Place{
		DisplayName:      best.DisplayName.Text,
		FormattedAddress: best.FormattedAddress,
		Rating:           best.Rating,
	}
	if best.Location != nil {
		lat, lon := best.Location.Latitude, best.Location.Longitude
		place.Latitude = &lat
		place.Longitude = &lon
	}
	if len(best.Photos) > 0 {
		place.PhotoName = best.Photos[0].Name
	}
	return place, nil
}

// PhotoURL substitutes the photo resource name into the media URL template.
func (c *PlacesClient) PhotoURL(photoName string) string {
	return fmt.Sprintf("%s/v1/%s/media?maxHeightPx=%d&maxWidthPx=%d&key=%s",
		c.baseURL, photoName, c.maxHeightPx, c.maxWidthPx, c.apiKey)
}
