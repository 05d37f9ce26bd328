package models

import (
	"time"

	"github.com/google/uuid"
)

// StopKind discriminates where a tour stop came from.
type StopKind string

const (
	StopKindProperty    StopKind = "property"
	StopKindDestination StopKind = "destination"
	StopKindCustom      StopKind = "custom"
)

// Valid reports whether the kind is one of the known values.
func (k StopKind) Valid() bool {
	switch k {
	case StopKindProperty, StopKindDestination, StopKindCustom:
		return true
	}
	return false
}

// TourStop is one ordered element of an itinerary.
// StepIndex is 1-based and contiguous; step 1 is the starting point.
// SourceID is nil for custom stops, which have no stored identity.
// Coords is nil for custom stops that have not been geocoded yet.
type TourStop struct {
	StepIndex int          `json:"stepIndex"`
	Kind      StopKind     `json:"kind"`
	SourceID  *uuid.UUID   `json:"sourceId,omitempty"`
	Name      string       `json:"name"`
	Address   string       `json:"address"`
	Coords    *Coordinates `json:"coords,omitempty"`
}

// SameIdentity reports whether two stops refer to the same stored record.
// Custom stops have no identity and never match.
func (s TourStop) SameIdentity(other TourStop) bool {
	if s.Kind == StopKindCustom || other.Kind == StopKindCustom {
		return false
	}
	if s.Kind != other.Kind || s.SourceID == nil || other.SourceID == nil {
		return false
	}
	return *s.SourceID == *other.SourceID
}

// RouteLeg is one resolved segment between two consecutive stops.
// FromIndex/ToIndex are the 1-based step indices of the leg's endpoints.
type RouteLeg struct {
	FromIndex int         `json:"fromIndex"`
	ToIndex   int         `json:"toIndex"`
	Driving   *ModeMetric `json:"driving,omitempty"`
	Walking   *ModeMetric `json:"walking,omitempty"`
	Transit   *ModeMetric `json:"transit,omitempty"`
}

// TourRoute is the resolved route for a complete stop sequence:
// N stops produce N-1 legs. A route is immutable once produced; editing
// the stops invalidates it and requires a new resolution.
type TourRoute struct {
	Legs         []RouteLeg            `json:"legs"`
	TotalsByMode map[string]ModeMetric `json:"totalsByMode,omitempty"`
	ResolvedAt   time.Time             `json:"resolvedAt"`
}

// SavedTour is an archived itinerary with its resolved route snapshot.
type SavedTour struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Stops     []TourStop `json:"stops"`
	Route     TourRoute  `json:"route"`
	CreatedAt time.Time  `json:"createdAt"`
}

// StartingPoint returns the first stop, or nil for an empty tour.
func (t SavedTour) StartingPoint() *TourStop {
	if len(t.Stops) == 0 {
		return nil
	}
	return &t.Stops[0]
}
