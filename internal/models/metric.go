package models

import (
	"time"

	"github.com/google/uuid"
)

// ModeMetric holds the raw provider units for one travel mode.
// Distances are meters, durations are seconds; presentation units are
// derived at read time (see units.go), never stored.
type ModeMetric struct {
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// DistanceMetric is the computed travel metrics for one
// (property, destination) pair. At most one record exists per pair;
// recomputation overwrites in place.
//
// A nil mode pointer means the provider did not return that mode.
type DistanceMetric struct {
	PropertyID    uuid.UUID   `json:"propertyId"`
	DestinationID uuid.UUID   `json:"destinationId"`
	Driving       *ModeMetric `json:"driving,omitempty"`
	Walking       *ModeMetric `json:"walking,omitempty"`
	Transit       *ModeMetric `json:"transit,omitempty"`
	CalculatedAt  time.Time   `json:"calculatedAt"`
}

// PairKey identifies a (property, destination) pair in the matrix.
type PairKey struct {
	PropertyID    uuid.UUID
	DestinationID uuid.UUID
}
