package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/mwhitfield/showroute/api/internal/errors"
	"github.com/mwhitfield/showroute/api/internal/middleware"
	"github.com/mwhitfield/showroute/api/internal/models"
	"github.com/mwhitfield/showroute/api/internal/services"
)

// TourHandler handles tour building and route resolution HTTP requests.
type TourHandler struct {
	builder services.BuilderService
	routes  services.RouteService
}

// NewTourHandler creates a new TourHandler instance.
func NewTourHandler(builder services.BuilderService, routes services.RouteService) *TourHandler {
	return &TourHandler{
		builder: builder,
		routes:  routes,
	}
}

// StopPayload represents one itinerary stop in request bodies.
type StopPayload struct {
	Kind     string              `json:"kind" binding:"required,oneof=property destination custom"`
	SourceID *uuid.UUID          `json:"sourceId"`
	Name     string              `json:"name" binding:"required"`
	Address  string              `json:"address"`
	Coords   *models.Coordinates `json:"coords"`
}

// BuildTourRequest represents the body of the build endpoint. Selection
// order is the visit order; moves are applied after assembly.
type BuildTourRequest struct {
	Start          StopPayload         `json:"start" binding:"required"`
	PropertyIDs    []uuid.UUID         `json:"propertyIds"`
	DestinationIDs []uuid.UUID         `json:"destinationIds"`
	Moves          []services.StopMove `json:"moves" binding:"omitempty,dive"`
}

// BuildTourResponse represents the build endpoint response.
type BuildTourResponse struct {
	Stops []models.TourStop `json:"stops"`
	Count int               `json:"count"`
}

// ResolveRequest represents the body of the resolve endpoint.
type ResolveRequest struct {
	Stops    []StopPayload `json:"stops" binding:"required,min=2,dive"`
	Optimize bool          `json:"optimize"`
}

// ResolveResponse represents the resolve endpoint response. Resolved is
// false when no route could be produced; the stops are still returned so
// the client can render them as plain markers.
type ResolveResponse struct {
	Resolved bool              `json:"resolved"`
	Stops    []models.TourStop `json:"stops"`
	Route    *models.TourRoute `json:"route,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// Build handles POST /api/v1/tours/build.
// It assembles a renumbered stop sequence from the starting point and
// the selected record ids, deduplicating repeated selections and any
// selection that matches the start.
func (h *TourHandler) Build(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req BuildTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	stops, err := h.builder.Build(c.Request.Context(), stopFromPayload(req.Start),
		req.PropertyIDs, req.DestinationIDs, req.Moves)
	if err != nil {
		if errors.Is(err, services.ErrUnknownSelection) {
			apierrors.NotFound(c, err.Error())
			return
		}
		if errors.Is(err, services.ErrStartNotReorderable) || errors.Is(err, services.ErrInvalidStep) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to build itinerary", err)
		return
	}

	if log != nil {
		log.Info("Itinerary assembled", map[string]interface{}{
			"stops": len(stops),
			"moves": len(req.Moves),
		})
	}

	c.JSON(http.StatusOK, BuildTourResponse{
		Stops: stops,
		Count: len(stops),
	})
}

// Resolve handles POST /api/v1/tours/resolve.
// It turns an ordered stop sequence into per-leg metrics via a single
// chained provider request. Route failures are not errors: the response
// degrades to an unresolved marker set with HTTP 200.
func (h *TourHandler) Resolve(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	stops := make([]models.TourStop, 0, len(req.Stops))
	for i, p := range req.Stops {
		stop := stopFromPayload(p)
		stop.StepIndex = i + 1
		stops = append(stops, stop)
	}

	if log != nil {
		log.Info("Processing resolve request", map[string]interface{}{
			"stops":    len(stops),
			"optimize": req.Optimize,
		})
	}

	resolved, err := h.routes.Resolve(c.Request.Context(), stops, req.Optimize)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientStops) {
			apierrors.BadRequestWithCode(c, apierrors.ErrInsufficientStops, "A route needs at least 2 stops", nil)
			return
		}
		if errors.Is(err, services.ErrStopNotLocated) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		if errors.Is(err, services.ErrRouteUnresolved) {
			c.JSON(http.StatusOK, ResolveResponse{
				Resolved: false,
				Stops:    stops,
				Message:  "Route could not be resolved; showing stops without directions",
			})
			return
		}
		apierrors.InternalServerError(c, "Failed to resolve route", err)
		return
	}

	c.JSON(http.StatusOK, ResolveResponse{
		Resolved: true,
		Stops:    resolved.Stops,
		Route:    &resolved.Route,
	})
}

// stopFromPayload converts a request stop into the model type. Step
// numbers are assigned by the caller.
func stopFromPayload(p StopPayload) models.TourStop {
	return models.TourStop{
		Kind:     models.StopKind(p.Kind),
		SourceID: p.SourceID,
		Name:     p.Name,
		Address:  p.Address,
		Coords:   p.Coords,
	}
}
