package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mwhitfield/showroute/api/internal/database"
	"github.com/mwhitfield/showroute/api/internal/models"
)

// TourRepository defines data access for archived tours. Stop and route
// snapshots are stored as JSON documents; the engine treats them as
// opaque values once saved.
type TourRepository interface {
	// Insert stores a new saved tour.
	Insert(ctx context.Context, tour models.SavedTour) error

	// FindByID returns the tour with the given id.
	// Returns nil, nil when no tour exists (not an error).
	FindByID(ctx context.Context, id uuid.UUID) (*models.SavedTour, error)

	// List returns all saved tours, newest first.
	List(ctx context.Context) ([]models.SavedTour, error)

	// Rename updates a tour's name. Returns false when the id is unknown.
	Rename(ctx context.Context, id uuid.UUID, name string) (bool, error)

	// Delete removes a tour. Returns false when the id is unknown.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// tourRepository is the concrete implementation of TourRepository.
type tourRepository struct {
	db *database.Database
}

// NewTourRepository creates a new instance of TourRepository.
func NewTourRepository(db *database.Database) TourRepository {
	return &tourRepository{
		db: db,
	}
}

func (r *tourRepository) Insert(ctx context.Context, tour models.SavedTour) error {
	stops, err := json.Marshal(tour.Stops)
	if err != nil {
		return fmt.Errorf("failed to encode tour stops: %w", err)
	}
	route, err := json.Marshal(tour.Route)
	if err != nil {
		return fmt.Errorf("failed to encode tour route: %w", err)
	}

	query := `
		INSERT INTO saved_tours (id, name, stops, route, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.Pool.Exec(ctx, query, tour.ID, tour.Name, stops, route, tour.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tour %s: %w", tour.ID, err)
	}

	return nil
}

func (r *tourRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.SavedTour, error) {
	query := `
		SELECT id, name, stops, route, created_at
		FROM saved_tours
		WHERE id = $1
	`

	tour, err := scanTour(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query tour %s: %w", id, err)
	}

	return tour, nil
}

func (r *tourRepository) List(ctx context.Context) ([]models.SavedTour, error) {
	query := `
		SELECT id, name, stops, route, created_at
		FROM saved_tours
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tours: %w", err)
	}
	defer rows.Close()

	results := []models.SavedTour{}
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tour row: %w", err)
		}
		results = append(results, *tour)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tour rows: %w", err)
	}

	return results, nil
}

func (r *tourRepository) Rename(ctx context.Context, id uuid.UUID, name string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE saved_tours SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return false, fmt.Errorf("failed to rename tour %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *tourRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM saved_tours WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete tour %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanTour reads one saved tour row, decoding the JSON snapshots.
func scanTour(row pgx.Row) (*models.SavedTour, error) {
	var tour models.SavedTour
	var stops, route []byte

	if err := row.Scan(&tour.ID, &tour.Name, &stops, &route, &tour.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(stops, &tour.Stops); err != nil {
		return nil, fmt.Errorf("failed to decode stops for tour %s: %w", tour.ID, err)
	}
	if err := json.Unmarshal(route, &tour.Route); err != nil {
		return nil, fmt.Errorf("failed to decode route for tour %s: %w", tour.ID, err)
	}

	return &tour, nil
}
