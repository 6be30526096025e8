package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/mifotohu/katyufigyelo/internal/retry"
)

// DefaultBaseURL is the public Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

const defaultUserAgent = "katyufigyelo/1.0"

// ErrNoResults means the service answered but had zero candidates for the
// query. This is a user-correctable input problem, not a transient fault,
// and is never retried.
var ErrNoResults = errors.New("geocoding returned no results for address")

// Client wraps the Nominatim search API. It asks for at most one best match
// and throttles itself to one request per second per the Nominatim usage
// policy.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      retry.Config
}

// NewClient creates a geocoding client. NOMINATIM_URL overrides the base URL
// (useful for self-hosted instances and tests); NOMINATIM_USER_AGENT
// overrides the User-Agent the usage policy requires deployments to identify
// themselves with.
func NewClient() *Client {
	base := os.Getenv("NOMINATIM_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	ua := os.Getenv("NOMINATIM_USER_AGENT")
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		baseURL:   base,
		userAgent: ua,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		retry:   retry.Config{MaxAttempts: 2, BaseDelay: time.Second},
	}
}

type candidate struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve converts a free-form address query into coordinates, taking the
// first (best) candidate. Returns ErrNoResults when the candidate set is
// empty; transport and service failures are retried once, then surfaced
// wrapped.
func (c *Client) Resolve(ctx context.Context, query string) (lat, lng float64, err error) {
	u := fmt.Sprintf("%s/search?format=json&q=%s&limit=1", c.baseURL, url.QueryEscape(query))

	err = c.retry.Do(ctx, "geocoding lookup", func() error {
		lat, lng, err = c.lookup(ctx, u)
		if errors.Is(err, ErrNoResults) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

func (c *Client) lookup(ctx context.Context, u string) (float64, float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding service returned HTTP %d", resp.StatusCode)
	}

	var candidates []candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return 0, 0, fmt.Errorf("decoding response: %w", err)
	}
	if len(candidates) == 0 {
		return 0, 0, ErrNoResults
	}

	// Nominatim serializes coordinates as numeric strings.
	lat, err := strconv.ParseFloat(candidates[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing candidate lat %q: %w", candidates[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(candidates[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing candidate lon %q: %w", candidates[0].Lon, err)
	}
	return lat, lng, nil
}
