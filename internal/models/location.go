package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Property represents a real-estate property managed by the external CRUD
// layer. Only the fields the planning engine needs are modeled here.
type Property struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Street     string      `json:"street"`
	City       string      `json:"city"`
	State      string      `json:"state"`
	PostalCode string      `json:"postalCode"`
	Category   string      `json:"category"`
	Tags       []string    `json:"tags"`
	Coords     Coordinates `json:"coords"`
}

// Address renders the structured address as a single display string.
func (p Property) Address() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Street, p.City, p.State, p.PostalCode} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Destination represents a point of interest a property can be measured
// against. Destinations carry a single free-form address string.
type Destination struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Address  string      `json:"address"`
	Category string      `json:"category"`
	Tags     []string    `json:"tags"`
	Coords   Coordinates `json:"coords"`
}

// String implements fmt.Stringer for log output.
func (c Coordinates) String() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}
