package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwhitfield/showroute/api/internal/logger"
	"github.com/mwhitfield/showroute/api/internal/models"
	"github.com/mwhitfield/showroute/api/internal/repository"
)

// Archive errors.
var (
	// ErrEmptyRoute means a save was attempted before route resolution.
	ErrEmptyRoute = errors.New("cannot save a tour without a resolved route")

	// ErrTourNotFound means an archive operation referenced an unknown id.
	ErrTourNotFound = errors.New("tour not found")

	// ErrEmptyName means a save or rename carried a blank name.
	ErrEmptyName = errors.New("tour name must not be empty")

	// ErrInvalidStopKind means a stop snapshot carried an unknown kind.
	ErrInvalidStopKind = errors.New("unknown stop kind")
)

// LoadedTour is a saved tour plus the builder state extracted from its
// stop snapshot, so the caller can rehydrate its selection lists.
type LoadedTour struct {
	Tour           models.SavedTour `json:"tour"`
	PropertyIDs    []uuid.UUID      `json:"propertyIds"`
	DestinationIDs []uuid.UUID      `json:"destinationIds"`
}

// ArchiveService persists, retrieves, renames and deletes named tours.
type ArchiveService interface {
	// Save archives an itinerary with its resolved route snapshot.
	// Fails with ErrEmptyRoute when the route has no legs.
	Save(ctx context.Context, name string, stops []models.TourStop, route models.TourRoute) (*models.SavedTour, error)

	// List returns all saved tours, newest first.
	List(ctx context.Context) ([]models.SavedTour, error)

	// Load returns a saved tour and the selection state encoded in its
	// stops. Fails with ErrTourNotFound for unknown ids.
	Load(ctx context.Context, id uuid.UUID) (*LoadedTour, error)

	// Rename updates a tour's user-assigned name.
	// Fails with ErrTourNotFound for unknown ids.
	Rename(ctx context.Context, id uuid.UUID, name string) error

	// Delete removes a saved tour.
	// Fails with ErrTourNotFound for unknown ids.
	Delete(ctx context.Context, id uuid.UUID) error
}

// archiveService is the concrete implementation of ArchiveService.
type archiveService struct {
	tours repository.TourRepository
	log   *logger.Logger
}

// NewArchiveService creates a new instance of ArchiveService.
func NewArchiveService(tours repository.TourRepository, log *logger.Logger) ArchiveService {
	return &archiveService{
		tours: tours,
		log:   log,
	}
}

func (s *archiveService) Save(ctx context.Context, name string, stops []models.TourStop, route models.TourRoute) (*models.SavedTour, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(route.Legs) < 1 {
		return nil, ErrEmptyRoute
	}
	for _, stop := range stops {
		if !stop.Kind.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStopKind, stop.Kind)
		}
	}

	tour := models.SavedTour{
		ID:        uuid.New(),
		Name:      name,
		Stops:     stops,
		Route:     route,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.tours.Insert(ctx, tour); err != nil {
		return nil, fmt.Errorf("failed to save tour: %w", err)
	}

	s.log.Info("Tour saved", map[string]interface{}{
		"tour_id": tour.ID,
		"name":    tour.Name,
		"stops":   len(tour.Stops),
		"legs":    len(tour.Route.Legs),
	})

	return &tour, nil
}

func (s *archiveService) List(ctx context.Context) ([]models.SavedTour, error) {
	tours, err := s.tours.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	return tours, nil
}

func (s *archiveService) Load(ctx context.Context, id uuid.UUID) (*LoadedTour, error) {
	tour, err := s.tours.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tour: %w", err)
	}
	if tour == nil {
		return nil, ErrTourNotFound
	}

	loaded := &LoadedTour{
		Tour:           *tour,
		PropertyIDs:    []uuid.UUID{},
		DestinationIDs: []uuid.UUID{},
	}

	// Rebuild the selection lists from the snapshot's stop kinds. The
	// starting point is part of the snapshot but not a selection.
	for i, stop := range tour.Stops {
		if i == 0 || stop.SourceID == nil {
			continue
		}
		switch stop.Kind {
		case models.StopKindProperty:
			loaded.PropertyIDs = append(loaded.PropertyIDs, *stop.SourceID)
		case models.StopKindDestination:
			loaded.DestinationIDs = append(loaded.DestinationIDs, *stop.SourceID)
		}
	}

	return loaded, nil
}

func (s *archiveService) Rename(ctx context.Context, id uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	renamed, err := s.tours.Rename(ctx, id, name)
	if err != nil {
		return fmt.Errorf("failed to rename tour: %w", err)
	}
	if !renamed {
		return ErrTourNotFound
	}

	s.log.Info("Tour renamed", map[string]interface{}{
		"tour_id": id,
		"name":    name,
	})

	return nil
}

func (s *archiveService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.tours.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete tour: %w", err)
	}
	if !deleted {
		return ErrTourNotFound
	}

	s.log.Info("Tour deleted", map[string]interface{}{
		"tour_id": id,
	})

	return nil
}
