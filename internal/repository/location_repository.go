package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mwhitfield/showroute/api/internal/database"
	"github.com/mwhitfield/showroute/api/internal/models"
)

// LocationRepository defines read access to property and destination
// records. The records themselves are owned by the external CRUD layer;
// the engine only reads them.
type LocationRepository interface {
	// ListProperties returns all properties.
	// Returns an empty slice when the table is empty (not an error).
	ListProperties(ctx context.Context) ([]models.Property, error)

	// ListDestinations returns all destinations.
	// Returns an empty slice when the table is empty (not an error).
	ListDestinations(ctx context.Context) ([]models.Destination, error)

	// PropertiesByIDs returns the properties with the given ids.
	// Unknown ids are silently absent from the result.
	PropertiesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Property, error)

	// DestinationsByIDs returns the destinations with the given ids.
	// Unknown ids are silently absent from the result.
	DestinationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Destination, error)
}

// locationRepository is the concrete implementation of LocationRepository.
type locationRepository struct {
	db *database.Database
}

// NewLocationRepository creates a new instance of LocationRepository.
func NewLocationRepository(db *database.Database) LocationRepository {
	return &locationRepository{
		db: db,
	}
}

const propertyColumns = `id, name, street, city, state, postal_code, category, tags, lat, lng`

func (r *locationRepository) ListProperties(ctx context.Context) ([]models.Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties ORDER BY name`, propertyColumns)

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	return scanProperties(rows)
}

func (r *locationRepository) PropertiesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Property, error) {
	if len(ids) == 0 {
		return []models.Property{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM properties WHERE id = ANY($1) ORDER BY name`, propertyColumns)

	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties by ids: %w", err)
	}
	defer rows.Close()

	return scanProperties(rows)
}

const destinationColumns = `id, name, address, category, tags, lat, lng`

func (r *locationRepository) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	query := fmt.Sprintf(`SELECT %s FROM destinations ORDER BY name`, destinationColumns)

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query destinations: %w", err)
	}
	defer rows.Close()

	return scanDestinations(rows)
}

func (r *locationRepository) DestinationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Destination, error) {
	if len(ids) == 0 {
		return []models.Destination{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM destinations WHERE id = ANY($1) ORDER BY name`, destinationColumns)

	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query destinations by ids: %w", err)
	}
	defer rows.Close()

	return scanDestinations(rows)
}

// scanProperties drains a property result set.
func scanProperties(rows pgx.Rows) ([]models.Property, error) {
	results := []models.Property{}

	for rows.Next() {
		var p models.Property
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Street,
			&p.City,
			&p.State,
			&p.PostalCode,
			&p.Category,
			&p.Tags,
			&p.Coords.Lat,
			&p.Coords.Lng,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}

	return results, nil
}

// scanDestinations drains a destination result set.
func scanDestinations(rows pgx.Rows) ([]models.Destination, error) {
	results := []models.Destination{}

	for rows.Next() {
		var d models.Destination
		err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Address,
			&d.Category,
			&d.Tags,
			&d.Coords.Lat,
			&d.Coords.Lng,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan destination row: %w", err)
		}
		results = append(results, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating destination rows: %w", err)
	}

	return results, nil
}
