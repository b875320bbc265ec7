package trip

import (
	"fmt"
	"strings"

	"github.com/i-am-feyi/ai-travel-planner/internal/types"
)

// BuildTripPrompt renders the generation instruction for one trip request.
// Pure function: same request, same prompt. The field list here is the de
// facto contract with the model; keep it in sync with types.RawItinerary.
func BuildTripPrompt(req types.TripRequest) string {
	return fmt.Sprintf(`
Generate a %d-day travel plan to %s for a %s. Base the plan on the following preferences:

- Budget: %s
- Travel Style: %s
- Interests: %s

### Instructions:

1. Return the response as a valid, clean JSON object. Do NOT include any markdown formatting or triple backticks.
2. The structure must include two main sections:
   - "hotels": List 3-5 suitable hotel options with:
     - hotelName
     - address
     - estimatedPricePerNight (in USD)
     - latitude
     - longitude
     - rating (out of 5)
     - description
     - The hotel should be in the same city as the location or in the same country as the location and it should match the travel budget.
   - "itinerary": List for each day in an array of objects:
     - day: number (1-%d)
     - location: name of city/area for that day
     - activities: array of:
       - placeName
       - placeDetails
       - latitude
       - longitude
       - ticketPrice (USD, if applicable)
       - rating (out of 5)
       - timeOfDay (e.g., Morning, Afternoon, Evening)
       - estimatedTravelTime (from previous location, in minutes)

3. Include an "overview" section:
   - title: name of the trip
   - location: the location of the trip
   - travelStyle: the style of travel for the trip
   - groupType: the type of group for the trip
   - interests: the interests of the trip
   - budget: the budget of the trip
   - numberOfDays: the number of days for the trip
   - description: 2-3 short paragraphs summarising the trip and its highlights, as an array of strings. The first paragraph should summarise the destination; the rest should summarise the trip itself.
   - estimatedTotalPrice: lowest estimate for the full trip (USD)
   - bestTimeToVisit: per season, give suggestions
   - weatherInfo: seasonal temperature info with naming specific to the location's weather types (e.g. rainy, dry, fall, autumn, spring, etc.)
   - generalLocation:
     - cityOrRegionName: city or region name
     - coordinates
     - openStreetMap link

The itinerary must contain exactly %d day entries, numbered 1 through %d with no gaps.

Make the output highly structured and parseable. Do not add explanations, extra text, markdown, or commentary.
Only return valid JSON.
`, req.NumberOfDays, req.Location, req.GroupType,
		req.Budget, req.TravelStyle, strings.Join(req.Interests, ", "),
		req.NumberOfDays, req.NumberOfDays, req.NumberOfDays)
}
