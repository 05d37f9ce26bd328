package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mwhitfield/showroute/api/internal/logger"
	"github.com/mwhitfield/showroute/api/internal/models"
	"github.com/mwhitfield/showroute/api/internal/repository"
	"github.com/mwhitfield/showroute/api/internal/taxonomy"
)

// FilterSelection is the compound predicate evaluated over the matrix.
type FilterSelection struct {
	PropertyIDs    []uuid.UUID
	DestinationIDs []uuid.UUID
	Categories     []string
	Tags           []string
}

// secondaryFacetSelected reports whether any facet besides properties is
// narrowed.
func (f FilterSelection) secondaryFacetSelected() bool {
	return len(f.DestinationIDs) > 0 || len(f.Categories) > 0 || len(f.Tags) > 0
}

// DistanceView is one row of a filtered matrix view: the metric joined
// with the display fields of both endpoints. It carries everything the
// CSV export needs.
type DistanceView struct {
	PropertyID          uuid.UUID             `json:"propertyId"`
	PropertyName        string                `json:"propertyName"`
	PropertyAddress     string                `json:"propertyAddress"`
	PropertyType        string                `json:"propertyType"`
	DestinationID       uuid.UUID             `json:"destinationId"`
	DestinationName     string                `json:"destinationName"`
	DestinationAddress  string                `json:"destinationAddress"`
	DestinationCategory string                `json:"destinationCategory"`
	Metric              models.DistanceMetric `json:"metric"`
}

// FilterService evaluates compound selections over the distance matrix.
type FilterService interface {
	// FilterDistances returns the matrix rows matching the selection.
	// The result is empty unless at least one property and at least one
	// secondary facet (destination, category or tag) are selected; an
	// accidental unfiltered cross-product is never shown.
	FilterDistances(ctx context.Context, sel FilterSelection) ([]DistanceView, error)
}

// filterService is the concrete implementation of FilterService.
type filterService struct {
	locations repository.LocationRepository
	metrics   repository.MetricRepository
	log       *logger.Logger
}

// NewFilterService creates a new instance of FilterService.
func NewFilterService(
	locations repository.LocationRepository,
	metrics repository.MetricRepository,
	log *logger.Logger,
) FilterService {
	return &filterService{
		locations: locations,
		metrics:   metrics,
		log:       log,
	}
}

func (s *filterService) FilterDistances(ctx context.Context, sel FilterSelection) ([]DistanceView, error) {
	// Deliberate precondition, not a default: with no property selected,
	// or with properties but no secondary facet, the view stays empty.
	if len(sel.PropertyIDs) == 0 || !sel.secondaryFacetSelected() {
		s.log.Debug("Filter precondition not met, returning empty view", map[string]interface{}{
			"properties": len(sel.PropertyIDs),
			"secondary":  sel.secondaryFacetSelected(),
		})
		return []DistanceView{}, nil
	}

	// Narrow the metric scan by the id facets; category and tag facets
	// are evaluated in memory against the joined records.
	metrics, err := s.metrics.Query(ctx, sel.PropertyIDs, sel.DestinationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics for filter: %w", err)
	}

	properties, err := s.locations.PropertiesByIDs(ctx, sel.PropertyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load selected properties: %w", err)
	}
	destinationIDs := make([]uuid.UUID, 0, len(metrics))
	seen := make(map[uuid.UUID]struct{}, len(metrics))
	for _, m := range metrics {
		if _, ok := seen[m.DestinationID]; !ok {
			seen[m.DestinationID] = struct{}{}
			destinationIDs = append(destinationIDs, m.DestinationID)
		}
	}
	destinations, err := s.locations.DestinationsByIDs(ctx, destinationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load destinations for filter: %w", err)
	}

	propertyByID := make(map[uuid.UUID]models.Property, len(properties))
	for _, p := range properties {
		propertyByID[p.ID] = p
	}
	destinationByID := make(map[uuid.UUID]models.Destination, len(destinations))
	for _, d := range destinations {
		destinationByID[d.ID] = d
	}

	views := []DistanceView{}
	for _, m := range metrics {
		property, ok := propertyByID[m.PropertyID]
		if !ok {
			continue
		}
		destination, ok := destinationByID[m.DestinationID]
		if !ok {
			continue
		}
		if !matches(sel, property, destination) {
			continue
		}
		views = append(views, DistanceView{
			PropertyID:          property.ID,
			PropertyName:        property.Name,
			PropertyAddress:     property.Address(),
			PropertyType:        property.Category,
			DestinationID:       destination.ID,
			DestinationName:     destination.Name,
			DestinationAddress:  destination.Address,
			DestinationCategory: taxonomy.Label(taxonomy.Normalize(destination.Category)),
			Metric:              m,
		})
	}

	s.log.Info("Filtered distance matrix", map[string]interface{}{
		"metrics": len(metrics),
		"matched": len(views),
	})

	return views, nil
}

// matches evaluates the category and tag facets for one joined row. The
// id facets were already applied by the metric query. Each facet passes
// when its selection is empty or membership holds; the final predicate is
// the conjunction of all facets.
func matches(sel FilterSelection, property models.Property, destination models.Destination) bool {
	if len(sel.Categories) > 0 {
		canonical := taxonomy.Normalize(destination.Category)
		found := false
		for _, c := range sel.Categories {
			if taxonomy.Normalize(c) == canonical {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(sel.Tags) > 0 {
		tagSet := make(map[string]struct{}, len(property.Tags)+len(destination.Tags))
		for _, t := range property.Tags {
			tagSet[t] = struct{}{}
		}
		for _, t := range destination.Tags {
			tagSet[t] = struct{}{}
		}
		found := false
		for _, t := range sel.Tags {
			if _, ok := tagSet[t]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
