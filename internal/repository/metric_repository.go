package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mwhitfield/showroute/api/internal/database"
	"github.com/mwhitfield/showroute/api/internal/models"
)

// MetricRepository defines data access for the distance matrix.
type MetricRepository interface {
	// Upsert writes one metric record, overwriting any existing record for
	// the same (property, destination) pair. Each call is a single atomic
	// write; concurrent upserts to different pairs never conflict.
	Upsert(ctx context.Context, metric models.DistanceMetric) error

	// ExistingPairs returns the set of pairs that already have a metric.
	ExistingPairs(ctx context.Context) (map[models.PairKey]struct{}, error)

	// Query returns existing metrics filtered by optional id sets. Empty
	// id slices mean "no filter on that side". Never triggers computation.
	Query(ctx context.Context, propertyIDs, destinationIDs []uuid.UUID) ([]models.DistanceMetric, error)
}

// metricRepository is the concrete implementation of MetricRepository.
type metricRepository struct {
	db *database.Database
}

// NewMetricRepository creates a new instance of MetricRepository.
func NewMetricRepository(db *database.Database) MetricRepository {
	return &metricRepository{
		db: db,
	}
}

func (r *metricRepository) Upsert(ctx context.Context, metric models.DistanceMetric) error {
	query := `
		INSERT INTO distance_metrics (
			property_id,
			destination_id,
			driving_distance_meters,
			driving_duration_seconds,
			walking_distance_meters,
			walking_duration_seconds,
			transit_distance_meters,
			transit_duration_seconds,
			calculated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (property_id, destination_id) DO UPDATE SET
			driving_distance_meters  = EXCLUDED.driving_distance_meters,
			driving_duration_seconds = EXCLUDED.driving_duration_seconds,
			walking_distance_meters  = EXCLUDED.walking_distance_meters,
			walking_duration_seconds = EXCLUDED.walking_duration_seconds,
			transit_distance_meters  = EXCLUDED.transit_distance_meters,
			transit_duration_seconds = EXCLUDED.transit_duration_seconds,
			calculated_at            = EXCLUDED.calculated_at
	`

	drivingDist, drivingDur := splitMode(metric.Driving)
	walkingDist, walkingDur := splitMode(metric.Walking)
	transitDist, transitDur := splitMode(metric.Transit)

	_, err := r.db.Pool.Exec(ctx, query,
		metric.PropertyID,
		metric.DestinationID,
		drivingDist,
		drivingDur,
		walkingDist,
		walkingDur,
		transitDist,
		transitDur,
		metric.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert metric for pair (%s, %s): %w",
			metric.PropertyID, metric.DestinationID, err)
	}

	return nil
}

func (r *metricRepository) ExistingPairs(ctx context.Context) (map[models.PairKey]struct{}, error) {
	query := `SELECT property_id, destination_id FROM distance_metrics`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing pairs: %w", err)
	}
	defer rows.Close()

	pairs := make(map[models.PairKey]struct{})
	for rows.Next() {
		var key models.PairKey
		if err := rows.Scan(&key.PropertyID, &key.DestinationID); err != nil {
			return nil, fmt.Errorf("failed to scan pair row: %w", err)
		}
		pairs[key] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pair rows: %w", err)
	}

	return pairs, nil
}

func (r *metricRepository) Query(ctx context.Context, propertyIDs, destinationIDs []uuid.UUID) ([]models.DistanceMetric, error) {
	// Empty id arrays disable the corresponding filter.
	query := `
		SELECT
			property_id,
			destination_id,
			driving_distance_meters,
			driving_duration_seconds,
			walking_distance_meters,
			walking_duration_seconds,
			transit_distance_meters,
			transit_duration_seconds,
			calculated_at
		FROM distance_metrics
		WHERE (cardinality($1::uuid[]) = 0 OR property_id = ANY($1))
		  AND (cardinality($2::uuid[]) = 0 OR destination_id = ANY($2))
		ORDER BY property_id, destination_id
	`

	if propertyIDs == nil {
		propertyIDs = []uuid.UUID{}
	}
	if destinationIDs == nil {
		destinationIDs = []uuid.UUID{}
	}

	rows, err := r.db.Pool.Query(ctx, query, propertyIDs, destinationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	results := []models.DistanceMetric{}
	for rows.Next() {
		var m models.DistanceMetric
		var drivingDist, drivingDur, walkingDist, walkingDur, transitDist, transitDur *float64

		err := rows.Scan(
			&m.PropertyID,
			&m.DestinationID,
			&drivingDist,
			&drivingDur,
			&walkingDist,
			&walkingDur,
			&transitDist,
			&transitDur,
			&m.CalculatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}

		m.Driving = joinMode(drivingDist, drivingDur)
		m.Walking = joinMode(walkingDist, walkingDur)
		m.Transit = joinMode(transitDist, transitDur)

		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metric rows: %w", err)
	}

	return results, nil
}

// splitMode flattens an optional mode metric into nullable columns.
func splitMode(m *models.ModeMetric) (distance, duration *float64) {
	if m == nil {
		return nil, nil
	}
	return &m.DistanceMeters, &m.DurationSeconds
}

// joinMode rebuilds an optional mode metric from nullable columns.
// Both columns are written together, so a lone non-null value means a
// corrupt row and is treated as absent.
func joinMode(distance, duration *float64) *models.ModeMetric {
	if distance == nil || duration == nil {
		return nil
	}
	return &models.ModeMetric{
		DistanceMeters:  *distance,
		DurationSeconds: *duration,
	}
}
