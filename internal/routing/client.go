package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/mwhitfield/showroute/api/internal/logger"
	"github.com/mwhitfield/showroute/api/internal/models"
)

const (
	routePath = "/v1/directions"

	cacheCleanupInterval = 10 * time.Minute

	// maxResponseBytes caps how much of a provider response we will read.
	maxResponseBytes = 4 << 20
)

// ClientConfig holds the settings for the HTTP routing client.
type ClientConfig struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Client is an HTTP implementation of Provider against a directions-style
// JSON API. Responses are cached in-process (TTL from config) so that
// recomputation passes do not burn provider quota on unchanged pairs.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	cache      *cache.Cache
	log        *logger.Logger
}

// NewClient builds a routing client with a bounded per-request timeout.
func NewClient(cfg ClientConfig, log *logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache: cache.New(cfg.CacheTTL, cacheCleanupInterval),
		log:   log,
	}
}

// directionsRequest is the provider wire format for a routing request.
type directionsRequest struct {
	Origin      wirePoint   `json:"origin"`
	Destination wirePoint   `json:"destination"`
	Waypoints   []wirePoint `json:"waypoints,omitempty"`
	Modes       []string    `json:"modes"`
	Optimize    bool        `json:"optimize_waypoints,omitempty"`
}

type wirePoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// directionsResponse is the provider wire format for a routing response.
type directionsResponse struct {
	Legs          []wireLeg `json:"legs"`
	WaypointOrder []int     `json:"waypoint_order,omitempty"`
}

type wireLeg struct {
	Modes map[string]wireMetric `json:"modes"`
}

type wireMetric struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Route sends one chained directions request and maps the response onto
// the provider-neutral result types.
func (c *Client) Route(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	key := cacheKey(req)
	if cached, found := c.cache.Get(key); found {
		if result, ok := cached.(*RouteResult); ok {
			return result, nil
		}
	}

	body, err := json.Marshal(buildWireRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to encode directions request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+routePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build directions request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Timeouts and transport failures both mean the provider cannot be
		// reached right now.
		c.log.Warn("Routing provider request failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrProviderUnavailable, err)
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		c.log.Warn("Routing provider returned error status", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return nil, err
	}

	var wire directionsResponse
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrRouteUnresolved, err)
	}
	if len(wire.Legs) == 0 {
		return nil, ErrRouteUnresolved
	}

	result := &RouteResult{
		Legs:          make([]Leg, 0, len(wire.Legs)),
		WaypointOrder: wire.WaypointOrder,
	}
	for _, leg := range wire.Legs {
		metrics := make(map[TravelMode]models.ModeMetric, len(leg.Modes))
		for mode, metric := range leg.Modes {
			metrics[TravelMode(mode)] = models.ModeMetric{
				DistanceMeters:  metric.DistanceMeters,
				DurationSeconds: metric.DurationSeconds,
			}
		}
		result.Legs = append(result.Legs, Leg{Metrics: metrics})
	}

	c.cache.Set(key, result, cache.DefaultExpiration)

	return result, nil
}

// checkStatus maps HTTP status classes onto provider error kinds.
// Auth and quota problems make the provider unusable for the whole batch;
// a not-found route only fails the current request.
func checkStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: authentication rejected (status %d)", ErrProviderUnavailable, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: quota exhausted (status %d)", ErrProviderUnavailable, status)
	case status >= 500:
		return fmt.Errorf("%w: provider error (status %d)", ErrProviderUnavailable, status)
	default:
		return fmt.Errorf("%w: status %d", ErrRouteUnresolved, status)
	}
}

func buildWireRequest(req RouteRequest) directionsRequest {
	wire := directionsRequest{
		Origin:      wirePoint{Lat: req.Origin.Lat, Lng: req.Origin.Lng},
		Destination: wirePoint{Lat: req.Destination.Lat, Lng: req.Destination.Lng},
		Optimize:    req.Optimize,
	}
	for _, wp := range req.Waypoints {
		wire.Waypoints = append(wire.Waypoints, wirePoint{Lat: wp.Lat, Lng: wp.Lng})
	}
	modes := req.Modes
	if len(modes) == 0 {
		modes = DefaultModes
	}
	for _, mode := range modes {
		wire.Modes = append(wire.Modes, string(mode))
	}
	return wire
}

// cacheKey builds a deterministic key for a request. Coordinates are
// rendered at full float64 precision, not the Stringer's fixed six
// decimals, so points closer than 1e-6 degrees never share an entry.
func cacheKey(req RouteRequest) string {
	var b strings.Builder
	writeCacheCoords(&b, req.Origin)
	b.WriteByte('|')
	writeCacheCoords(&b, req.Destination)
	for _, wp := range req.Waypoints {
		b.WriteByte('|')
		writeCacheCoords(&b, wp)
	}
	modes := req.Modes
	if len(modes) == 0 {
		modes = DefaultModes
	}
	for _, mode := range modes {
		fmt.Fprintf(&b, "|%s", mode)
	}
	fmt.Fprintf(&b, "|opt=%t", req.Optimize)
	return b.String()
}

func writeCacheCoords(b *strings.Builder, c models.Coordinates) {
	b.WriteString(strconv.FormatFloat(c.Lat, 'g', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(c.Lng, 'g', -1, 64))
}
