package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mwhitfield/showroute/api/internal/models"
)

// Itinerary-level errors.
var (
	ErrStartNotReorderable = errors.New("the starting point cannot be reordered")
	ErrInvalidStep         = errors.New("step index out of range")
)

// Itinerary is a mutable ordered stop sequence: a fixed starting point at
// step 1 followed by a permutable tail. It is an explicit value passed by
// the caller, not shared service state; handlers rebuild it from request
// payloads.
type Itinerary struct {
	start *models.TourStop
	tail  []models.TourStop
}

// NewItinerary returns an empty itinerary with no starting point.
func NewItinerary() *Itinerary {
	return &Itinerary{}
}

// BuildItinerary assembles an itinerary from a starting point and the
// selected properties and destinations, preserving selection order.
// Selections that duplicate the starting point are skipped, as are
// repeated selections of the same record.
func BuildItinerary(start models.TourStop, properties []models.Property, destinations []models.Destination) *Itinerary {
	it := NewItinerary()
	it.SetStartingPoint(start)

	for _, p := range properties {
		it.AddStop(PropertyStop(p))
	}
	for _, d := range destinations {
		it.AddStop(DestinationStop(d))
	}

	return it
}

// PropertyStop converts a property record into a tour stop.
func PropertyStop(p models.Property) models.TourStop {
	id := p.ID
	coords := p.Coords
	return models.TourStop{
		Kind:     models.StopKindProperty,
		SourceID: &id,
		Name:     p.Name,
		Address:  p.Address(),
		Coords:   &coords,
	}
}

// DestinationStop converts a destination record into a tour stop.
func DestinationStop(d models.Destination) models.TourStop {
	id := d.ID
	coords := d.Coords
	return models.TourStop{
		Kind:     models.StopKindDestination,
		SourceID: &id,
		Name:     d.Name,
		Address:  d.Address,
		Coords:   &coords,
	}
}

// CustomStop builds a free-form stop from an address string. Coordinates
// stay nil until an external geocoder resolves them; callers attach them
// via the returned stop's Coords field.
func CustomStop(name, address string) models.TourStop {
	return models.TourStop{
		Kind:    models.StopKindCustom,
		Name:    name,
		Address: address,
	}
}

// SetStartingPoint replaces step 1. Any tail stop that duplicates the new
// starting point is dropped so the start is never listed twice.
func (it *Itinerary) SetStartingPoint(stop models.TourStop) {
	start := stop
	it.start = &start

	if len(it.tail) == 0 {
		return
	}
	kept := it.tail[:0]
	for _, s := range it.tail {
		if !s.SameIdentity(start) {
			kept = append(kept, s)
		}
	}
	it.tail = kept
}

// AddStop appends a stop to the permutable tail. Stops that duplicate the
// starting point or an existing tail stop are silently skipped; custom
// stops have no identity and may repeat.
func (it *Itinerary) AddStop(stop models.TourStop) {
	if it.start != nil && stop.SameIdentity(*it.start) {
		return
	}
	for _, s := range it.tail {
		if s.SameIdentity(stop) {
			return
		}
	}
	it.tail = append(it.tail, stop)
}

// RemoveStop removes the first tail stop matching (kind, id).
// Removing an unknown stop is a no-op.
func (it *Itinerary) RemoveStop(kind models.StopKind, id uuid.UUID) {
	for i, s := range it.tail {
		if s.Kind == kind && s.SourceID != nil && *s.SourceID == id {
			it.tail = append(it.tail[:i], it.tail[i+1:]...)
			return
		}
	}
}

// Reorder moves the stop at fromIndex to toIndex. Indices are 1-based
// step numbers over the full sequence; step 1 is never a valid fromIndex.
// The move is remove-then-insert: when moving forward the target shifts
// left by one to account for the removal, which matches drag-and-drop
// "drop after" semantics.
func (it *Itinerary) Reorder(fromIndex, toIndex int) error {
	n := it.Len()
	if fromIndex == 1 {
		return ErrStartNotReorderable
	}
	if fromIndex < 1 || fromIndex > n {
		return fmt.Errorf("%w: fromIndex %d with %d steps", ErrInvalidStep, fromIndex, n)
	}
	if toIndex < 2 || toIndex > n {
		return fmt.Errorf("%w: toIndex %d with %d steps", ErrInvalidStep, toIndex, n)
	}
	if fromIndex == toIndex {
		return nil
	}

	// Translate to tail positions (tail is 0-based, offset by the start).
	// Inserting at the target position of the post-removal slice already
	// incorporates the forward-move shift: the moved stop ends up at step
	// toIndex, after the original occupant when moving forward and before
	// it when moving backward.
	from := fromIndex - 2
	to := toIndex - 2

	moved := it.tail[from]
	it.tail = append(it.tail[:from], it.tail[from+1:]...)

	it.tail = append(it.tail, models.TourStop{})
	copy(it.tail[to+1:], it.tail[to:])
	it.tail[to] = moved

	return nil
}

// Len returns the number of steps including the starting point.
func (it *Itinerary) Len() int {
	n := len(it.tail)
	if it.start != nil {
		n++
	}
	return n
}

// Stops returns the full sequence renumbered 1..N.
func (it *Itinerary) Stops() []models.TourStop {
	stops := make([]models.TourStop, 0, it.Len())
	if it.start != nil {
		stops = append(stops, *it.start)
	}
	stops = append(stops, it.tail...)
	for i := range stops {
		stops[i].StepIndex = i + 1
	}
	return stops
}
