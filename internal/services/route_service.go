package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwhitfield/showroute/api/internal/logger"
	"github.com/mwhitfield/showroute/api/internal/models"
	"github.com/mwhitfield/showroute/api/internal/routing"
)

// Route resolution errors.
var (
	// ErrInsufficientStops means resolution was requested with fewer than
	// two stops.
	ErrInsufficientStops = errors.New("a route needs at least 2 stops")

	// ErrRouteUnresolved means the provider could not produce a route.
	// Callers degrade to rendering the stops as static markers; this is
	// not a hard failure.
	ErrRouteUnresolved = errors.New("route could not be resolved")

	// ErrStopNotLocated means a stop has no coordinates (an ungeocoded
	// custom stop) and cannot be routed.
	ErrStopNotLocated = errors.New("stop has no coordinates")
)

// minWaypointsForOptimize is the intermediate waypoint count below which
// provider-side reordering is pointless.
const minWaypointsForOptimize = 2

// ResolvedTour pairs the final stop ordering with its route. When the
// provider reorders waypoints the stops come back renumbered in travel
// order.
type ResolvedTour struct {
	Stops []models.TourStop `json:"stops"`
	Route models.TourRoute  `json:"route"`
}

// RouteService resolves complete itineraries against the routing provider.
type RouteService interface {
	// Resolve sends the ordered stop sequence as one chained request and
	// returns one leg per consecutive stop pair. With optimize set and at
	// least two intermediate waypoints, the provider may permute the
	// intermediates; origin and destination stay fixed. Resolution has no
	// persistence side effects.
	Resolve(ctx context.Context, stops []models.TourStop, optimize bool) (*ResolvedTour, error)
}

// routeService is the concrete implementation of RouteService.
type routeService struct {
	provider routing.Provider
	log      *logger.Logger
}

// NewRouteService creates a new instance of RouteService.
func NewRouteService(provider routing.Provider, log *logger.Logger) RouteService {
	return &routeService{
		provider: provider,
		log:      log,
	}
}

func (s *routeService) Resolve(ctx context.Context, stops []models.TourStop, optimize bool) (*ResolvedTour, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientStops, len(stops))
	}

	coords := make([]models.Coordinates, len(stops))
	for i, stop := range stops {
		if stop.Coords == nil {
			return nil, fmt.Errorf("%w: step %d (%s)", ErrStopNotLocated, i+1, stop.Name)
		}
		coords[i] = *stop.Coords
	}

	waypoints := coords[1 : len(coords)-1]
	req := routing.RouteRequest{
		Origin:      coords[0],
		Destination: coords[len(coords)-1],
		Waypoints:   waypoints,
		Modes:       routing.DefaultModes,
		Optimize:    optimize && len(waypoints) >= minWaypointsForOptimize,
	}

	s.log.Info("Resolving tour route", map[string]interface{}{
		"stops":    len(stops),
		"optimize": req.Optimize,
	})

	result, err := s.provider.Route(ctx, req)
	if err != nil {
		// Provider failures of any kind degrade to marker-only rendering;
		// the distinction between unreachable and no-route does not change
		// what the caller can do with a single tour.
		s.log.Warn("Route resolution failed, degrading to markers", map[string]interface{}{
			"stops": len(stops),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrRouteUnresolved, err)
	}

	ordered := orderStops(stops, result.WaypointOrder)
	if len(result.Legs) != len(ordered)-1 {
		return nil, fmt.Errorf("%w: provider returned %d legs for %d stops",
			ErrRouteUnresolved, len(result.Legs), len(ordered))
	}

	route := models.TourRoute{
		Legs:         make([]models.RouteLeg, 0, len(result.Legs)),
		TotalsByMode: map[string]models.ModeMetric{},
		ResolvedAt:   time.Now().UTC(),
	}
	for i, leg := range result.Legs {
		routeLeg := models.RouteLeg{
			FromIndex: i + 1,
			ToIndex:   i + 2,
			Driving:   leg.Metric(routing.ModeDriving),
			Walking:   leg.Metric(routing.ModeWalking),
			Transit:   leg.Metric(routing.ModeTransit),
		}
		route.Legs = append(route.Legs, routeLeg)

		for mode, metric := range leg.Metrics {
			total := route.TotalsByMode[string(mode)]
			total.DistanceMeters += metric.DistanceMeters
			total.DurationSeconds += metric.DurationSeconds
			route.TotalsByMode[string(mode)] = total
		}
	}

	return &ResolvedTour{Stops: ordered, Route: route}, nil
}

// orderStops applies the provider's waypoint permutation to the stop
// sequence and renumbers the result. Only the intermediate stops move;
// origin and destination are pinned. A nil or malformed order (wrong
// length, out-of-range or repeated index) keeps the input sequence.
func orderStops(stops []models.TourStop, waypointOrder []int) []models.TourStop {
	ordered := make([]models.TourStop, len(stops))
	copy(ordered, stops)

	intermediates := len(stops) - 2
	if len(waypointOrder) == intermediates && intermediates > 0 {
		reordered := make([]models.TourStop, 0, intermediates)
		seen := make(map[int]bool, intermediates)
		valid := true
		for _, idx := range waypointOrder {
			if idx < 0 || idx >= intermediates || seen[idx] {
				valid = false
				break
			}
			seen[idx] = true
			reordered = append(reordered, stops[idx+1])
		}
		if valid {
			copy(ordered[1:len(ordered)-1], reordered)
		}
	}

	for i := range ordered {
		ordered[i].StepIndex = i + 1
	}
	return ordered
}
