package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mwhitfield/showroute/api/internal/logger"
	"github.com/mwhitfield/showroute/api/internal/models"
	"github.com/mwhitfield/showroute/api/internal/repository"
)

// ErrUnknownSelection means a build referenced a property or destination
// id with no stored record.
var ErrUnknownSelection = errors.New("selected record not found")

// StopMove is one drag-and-drop reorder operation over 1-based step
// numbers of the assembled sequence.
type StopMove struct {
	FromIndex int `json:"fromIndex" binding:"required"`
	ToIndex   int `json:"toIndex" binding:"required"`
}

// BuilderService assembles tour itineraries from stored selections.
type BuilderService interface {
	// Build loads the selected records, lines them up behind the starting
	// point in selection order, and applies the reorder moves one by one.
	// The returned stops are renumbered 1..N; selections duplicating the
	// starting point or each other appear once.
	Build(ctx context.Context, start models.TourStop, propertyIDs, destinationIDs []uuid.UUID, moves []StopMove) ([]models.TourStop, error)
}

// builderService is the concrete implementation of BuilderService.
type builderService struct {
	locations repository.LocationRepository
	log       *logger.Logger
}

// NewBuilderService creates a new instance of BuilderService.
func NewBuilderService(locations repository.LocationRepository, log *logger.Logger) BuilderService {
	return &builderService{
		locations: locations,
		log:       log,
	}
}

func (s *builderService) Build(ctx context.Context, start models.TourStop, propertyIDs, destinationIDs []uuid.UUID, moves []StopMove) ([]models.TourStop, error) {
	properties, err := s.selectedProperties(ctx, propertyIDs)
	if err != nil {
		return nil, err
	}
	destinations, err := s.selectedDestinations(ctx, destinationIDs)
	if err != nil {
		return nil, err
	}

	it := BuildItinerary(start, properties, destinations)
	for _, mv := range moves {
		if err := it.Reorder(mv.FromIndex, mv.ToIndex); err != nil {
			return nil, err
		}
	}
	stops := it.Stops()

	s.log.Info("Itinerary built", map[string]interface{}{
		"stops":        len(stops),
		"properties":   len(properties),
		"destinations": len(destinations),
		"moves":        len(moves),
	})

	return stops, nil
}

// selectedProperties fetches the records and restores selection order,
// which the repository does not preserve.
func (s *builderService) selectedProperties(ctx context.Context, ids []uuid.UUID) ([]models.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.locations.PropertiesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch selected properties: %w", err)
	}

	byID := make(map[uuid.UUID]models.Property, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}

	ordered := make([]models.Property, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: property %s", ErrUnknownSelection, id)
		}
		ordered = append(ordered, p)
	}
	return ordered, nil
}

func (s *builderService) selectedDestinations(ctx context.Context, ids []uuid.UUID) ([]models.Destination, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.locations.DestinationsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch selected destinations: %w", err)
	}

	byID := make(map[uuid.UUID]models.Destination, len(rows))
	for _, d := range rows {
		byID[d.ID] = d
	}

	ordered := make([]models.Destination, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: destination %s", ErrUnknownSelection, id)
		}
		ordered = append(ordered, d)
	}
	return ordered, nil
}
