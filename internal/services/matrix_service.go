package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mwhitfield/showroute/api/internal/logger"
	"github.com/mwhitfield/showroute/api/internal/models"
	"github.com/mwhitfield/showroute/api/internal/repository"
	"github.com/mwhitfield/showroute/api/internal/routing"
)

// ComputeReport summarizes one batch computation pass. Partial failure is
// reported through the counts, never as an error.
type ComputeReport struct {
	Calculated int `json:"calculated"`
	Errors     int `json:"errors"`
}

// Message renders the user-visible summary for a batch pass.
func (r ComputeReport) Message() string {
	return fmt.Sprintf("Calculated %d distances (%d errors)", r.Calculated, r.Errors)
}

// MatrixService defines the distance matrix operations.
type MatrixService interface {
	// ComputeMissing fills in metrics for every (property, destination)
	// pair that lacks one, or for all pairs when force is set. Pairs fail
	// independently; only a completely unreachable provider aborts the
	// batch, with routing.ErrProviderUnavailable and zero counts.
	ComputeMissing(ctx context.Context, force bool) (ComputeReport, error)

	// QueryDistances returns existing metrics filtered by optional id
	// sets. Read-only: results may be stale, computation is never
	// triggered.
	QueryDistances(ctx context.Context, propertyIDs, destinationIDs []uuid.UUID) ([]models.DistanceMetric, error)
}

// matrixService is the concrete implementation of MatrixService.
type matrixService struct {
	locations      repository.LocationRepository
	metrics        repository.MetricRepository
	provider       routing.Provider
	maxConcurrency int
	log            *logger.Logger
}

// NewMatrixService creates a new instance of MatrixService.
// maxConcurrency bounds the parallel provider calls during a batch pass.
func NewMatrixService(
	locations repository.LocationRepository,
	metrics repository.MetricRepository,
	provider routing.Provider,
	maxConcurrency int,
	log *logger.Logger,
) MatrixService {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &matrixService{
		locations:      locations,
		metrics:        metrics,
		provider:       provider,
		maxConcurrency: maxConcurrency,
		log:            log,
	}
}

func (s *matrixService) ComputeMissing(ctx context.Context, force bool) (ComputeReport, error) {
	properties, err := s.locations.ListProperties(ctx)
	if err != nil {
		return ComputeReport{}, fmt.Errorf("failed to load properties: %w", err)
	}
	destinations, err := s.locations.ListDestinations(ctx)
	if err != nil {
		return ComputeReport{}, fmt.Errorf("failed to load destinations: %w", err)
	}

	existing := map[models.PairKey]struct{}{}
	if !force {
		existing, err = s.metrics.ExistingPairs(ctx)
		if err != nil {
			return ComputeReport{}, fmt.Errorf("failed to load existing pairs: %w", err)
		}
	}

	type pair struct {
		property    models.Property
		destination models.Destination
	}
	pending := make([]pair, 0, len(properties)*len(destinations))
	for _, p := range properties {
		for _, d := range destinations {
			key := models.PairKey{PropertyID: p.ID, DestinationID: d.ID}
			if _, done := existing[key]; done {
				continue
			}
			pending = append(pending, pair{property: p, destination: d})
		}
	}

	s.log.Info("Starting distance matrix computation", map[string]interface{}{
		"properties":   len(properties),
		"destinations": len(destinations),
		"pending":      len(pending),
		"force":        force,
	})

	if len(pending) == 0 {
		return ComputeReport{}, nil
	}

	var (
		mu         sync.Mutex
		calculated int
		failed     int
	)

	// Pairs are independent: one bad pair must not block the others. The
	// group's error slot is reserved for a provider that is unreachable
	// outright, which cancels the remaining work.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for _, pr := range pending {
		pr := pr
		g.Go(func() error {
			metric, err := s.computePair(gctx, pr.property, pr.destination)
			if err != nil {
				if errors.Is(err, routing.ErrProviderUnavailable) {
					return err
				}
				s.log.Warn("Failed to compute pair", map[string]interface{}{
					"property_id":    pr.property.ID,
					"destination_id": pr.destination.ID,
					"error":          err.Error(),
				})
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			if err := s.metrics.Upsert(gctx, *metric); err != nil {
				s.log.Error("Failed to store metric", err, map[string]interface{}{
					"property_id":    pr.property.ID,
					"destination_id": pr.destination.ID,
				})
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			calculated++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Error("Distance matrix computation aborted", err, map[string]interface{}{
			"pending": len(pending),
		})
		return ComputeReport{}, fmt.Errorf("routing provider unreachable: %w", err)
	}

	report := ComputeReport{Calculated: calculated, Errors: failed}
	s.log.Info("Distance matrix computation finished", map[string]interface{}{
		"calculated": report.Calculated,
		"errors":     report.Errors,
	})

	return report, nil
}

// computePair resolves all travel modes for one pair with a single
// provider call. The pair is written all-or-nothing: any per-pair failure
// leaves the matrix untouched for that pair.
func (s *matrixService) computePair(ctx context.Context, p models.Property, d models.Destination) (*models.DistanceMetric, error) {
	result, err := s.provider.Route(ctx, routing.RouteRequest{
		Origin:      p.Coords,
		Destination: d.Coords,
		Modes:       routing.DefaultModes,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Legs) != 1 {
		return nil, fmt.Errorf("%w: expected 1 leg for a pair, got %d", routing.ErrRouteUnresolved, len(result.Legs))
	}

	leg := result.Legs[0]
	return &models.DistanceMetric{
		PropertyID:    p.ID,
		DestinationID: d.ID,
		Driving:       leg.Metric(routing.ModeDriving),
		Walking:       leg.Metric(routing.ModeWalking),
		Transit:       leg.Metric(routing.ModeTransit),
		CalculatedAt:  time.Now().UTC(),
	}, nil
}

func (s *matrixService) QueryDistances(ctx context.Context, propertyIDs, destinationIDs []uuid.UUID) ([]models.DistanceMetric, error) {
	metrics, err := s.metrics.Query(ctx, propertyIDs, destinationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query distances: %w", err)
	}

	s.log.Debug("Queried distance matrix", map[string]interface{}{
		"properties":   len(propertyIDs),
		"destinations": len(destinationIDs),
		"results":      len(metrics),
	})

	return metrics, nil
}
