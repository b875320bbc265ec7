package trip

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/i-am-feyi/ai-travel-planner/internal/types"
)

// CleanJSONResponse strips the markdown code fences models wrap JSON in even
// when told not to. Only prefix and suffix fences are removed; anything else
// is left for the JSON decoder to judge.
func CleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

// ParseItinerary decodes the model's raw response into an itinerary and
// checks it against the shape the prompt demanded. Syntax problems map to
// ErrMalformedModelOutput; well-formed JSON missing required structure maps
// to ErrSchemaViolation, so callers and logs can tell a garbled reply from a
// model that ignored instructions.
func ParseItinerary(raw string, expectedDays int) (*types.RawItinerary, error) {
	cleaned := CleanJSONResponse(raw)

	var itinerary types.RawItinerary
	if err := json.Unmarshal([]byte(cleaned), &itinerary); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrMalformedModelOutput, err)
	}

	if err := validateItinerary(&itinerary, expectedDays); err != nil {
		return nil, err
	}
	return &itinerary, nil
}

func validateItinerary(itinerary *types.RawItinerary, expectedDays int) error {
	if strings.TrimSpace(itinerary.Overview.Title) == "" {
		return fmt.Errorf("%w: overview is missing a title", types.ErrSchemaViolation)
	}
	if strings.TrimSpace(itinerary.Overview.Location) == "" {
		return fmt.Errorf("%w: overview is missing a location", types.ErrSchemaViolation)
	}
	if len(itinerary.Hotels) == 0 {
		return fmt.Errorf("%w: no hotels in response", types.ErrSchemaViolation)
	}
	if len(itinerary.Itinerary) != expectedDays {
		return fmt.Errorf("%w: expected %d itinerary days, got %d",
			types.ErrSchemaViolation, expectedDays, len(itinerary.Itinerary))
	}
	for i, day := range itinerary.Itinerary {
		if day.Day != i+1 {
			return fmt.Errorf("%w: itinerary days are not numbered 1..%d contiguously (position %d has day %d)",
				types.ErrSchemaViolation, expectedDays, i, day.Day)
		}
	}
	return nil
}
