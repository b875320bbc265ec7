package images

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// styleKeywords maps each travel style to descriptive search terms. Two are
// picked at random per request and appended to the destination to vary the
// destination imagery between trips to the same place.
var styleKeywords = map[string][]string{
	"adventure": {
		"hiking", "mountains", "wild", "offroad", "cliff",
		"river trail", "canyon", "adrenaline",
	},
	"city exploration": {
		"street view", "local life", "cityscape", "night lights",
		"historic center", "architecture", "urban vibe",
	},
	"cultural": {
		"temple", "market", "festival", "local tradition",
		"historic site", "old town", "cultural heritage",
	},
	"luxury": {
		"5-star resort", "private pool", "fine dining", "ocean view suite",
		"luxury spa", "boutique hotel", "sunset view",
	},
	"nature & outdoors": {
		"forest", "wildlife", "lake", "national park",
		"eco travel", "natural landscape", "hiking trail",
	},
	"relaxed": {
		"beach", "sunset", "quiet view", "spa retreat",
		"lazy afternoon", "peaceful nature", "slow travel",
	},
}

const maxTripImages = 3

// UnsplashClient queries the stock photo search API for destination imagery.
// The random source is injected so tests can seed it.
type UnsplashClient struct {
	httpClient *http.Client
	baseURL    string
	accessKey  string

	mu  sync.Mutex
	rng *rand.Rand
}

func NewUnsplashClient(baseURL, accessKey string, timeout time.Duration, rng *rand.Rand) *UnsplashClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &UnsplashClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		accessKey:  accessKey,
		rng:        rng,
	}
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// pickKeywords shuffles the style's keyword list and takes the first two.
// Unknown styles fall back to the bare location query.
func (c *UnsplashClient) pickKeywords(travelStyle string) []string {
	keywords, ok := styleKeywords[strings.ToLower(travelStyle)]
	if !ok || len(keywords) == 0 {
		return nil
	}

	shuffled := make([]string, len(keywords))
	copy(shuffled, keywords)

	c.mu.Lock()
	c.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	c.mu.Unlock()

	if len(shuffled) > 2 {
		shuffled = shuffled[:2]
	}
	return shuffled
}

// SearchTripImages returns up to three landscape photo URLs for the
// destination. Fewer results than three is not an error; the caller gets
// whatever the provider had.
func (c *UnsplashClient) SearchTripImages(ctx context.Context, location, travelStyle string) ([]string, error) {
	query := location
	if chosen := c.pickKeywords(travelStyle); len(chosen) > 0 {
		query = location + " " + strings.Join(chosen, " ")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("orientation", "landscape")
	params.Set("client_id", c.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build unsplash request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unsplash search returned status %d", resp.StatusCode)
	}

	var payload unsplashSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode unsplash response: %w", err)
	}

	urls := make([]string, 0, maxTripImages)
	for _, result := range payload.Results {
		if len(urls) == maxTripImages {
			break
		}
		if result.URLs.Regular != "" {
			urls = append(urls, result.URLs.Regular)
		}
	}
	return urls, nil
}
