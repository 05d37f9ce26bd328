// Package routing abstracts the external routing provider behind a narrow
// interface so business logic never touches provider SDK types directly.
package routing

import (
	"context"
	"errors"

	"github.com/mwhitfield/showroute/api/internal/models"
)

// TravelMode identifies one way of traveling a leg.
type TravelMode string

const (
	ModeDriving TravelMode = "driving"
	ModeWalking TravelMode = "walking"
	ModeTransit TravelMode = "transit"
)

// DefaultModes is the mode set requested when the caller does not narrow it.
var DefaultModes = []TravelMode{ModeDriving, ModeWalking, ModeTransit}

// Provider-level error kinds. Quota, auth and network failures all collapse
// into ErrProviderUnavailable; a reachable provider that cannot produce a
// usable route is ErrRouteUnresolved.
var (
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	ErrRouteUnresolved     = errors.New("no usable route returned by provider")
)

// RouteRequest describes one chained routing request: origin, destination,
// and optional intermediate waypoints. When Optimize is set the provider
// may permute the intermediate waypoints only; origin and destination are
// fixed.
type RouteRequest struct {
	Origin      models.Coordinates
	Destination models.Coordinates
	Waypoints   []models.Coordinates
	Modes       []TravelMode
	Optimize    bool
}

// Leg is one resolved segment with per-mode metrics. Modes the provider
// could not resolve are absent from the map.
type Leg struct {
	Metrics map[TravelMode]models.ModeMetric
}

// Metric returns the leg's metric for a mode, or nil when absent.
func (l Leg) Metric(mode TravelMode) *models.ModeMetric {
	if m, ok := l.Metrics[mode]; ok {
		metric := m
		return &metric
	}
	return nil
}

// RouteResult is the provider's answer for one RouteRequest: one leg per
// consecutive point pair in the final ordering. WaypointOrder holds the
// provider's permutation of the intermediate waypoints (indices into the
// request's Waypoints slice); nil means the input order was kept.
type RouteResult struct {
	Legs          []Leg
	WaypointOrder []int
}

// Provider is the routing provider contract. Implementations must honor
// the context deadline and map transport failures onto the error kinds
// above.
type Provider interface {
	Route(ctx context.Context, req RouteRequest) (*RouteResult, error)
}
