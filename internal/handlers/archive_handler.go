package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/mwhitfield/showroute/api/internal/errors"
	"github.com/mwhitfield/showroute/api/internal/middleware"
	"github.com/mwhitfield/showroute/api/internal/models"
	"github.com/mwhitfield/showroute/api/internal/services"
)

// ArchiveHandler handles saved tour HTTP requests.
type ArchiveHandler struct {
	archive services.ArchiveService
}

// NewArchiveHandler creates a new ArchiveHandler instance.
func NewArchiveHandler(archive services.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{
		archive: archive,
	}
}

// SaveTourRequest represents the body of the save endpoint. The route is
// the snapshot produced by a prior resolve call.
type SaveTourRequest struct {
	Name  string            `json:"name" binding:"required"`
	Stops []models.TourStop `json:"stops" binding:"required,min=1"`
	Route models.TourRoute  `json:"route" binding:"required"`
}

// RenameTourRequest represents the body of the rename endpoint.
type RenameTourRequest struct {
	Name string `json:"name" binding:"required"`
}

// TourSummary represents one saved tour in the list response.
type TourSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	StartsFrom string    `json:"startsFrom,omitempty"`
	StopCount  int       `json:"stopCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TourListResponse represents the response for the list endpoint.
type TourListResponse struct {
	Tours []TourSummary `json:"tours"`
	Count int           `json:"count"`
}

// Save handles POST /api/v1/tours.
// It archives a resolved itinerary under a user-assigned name.
func (h *ArchiveHandler) Save(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req SaveTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	tour, err := h.archive.Save(c.Request.Context(), req.Name, req.Stops, req.Route)
	if err != nil {
		if errors.Is(err, services.ErrEmptyRoute) {
			apierrors.BadRequestWithCode(c, apierrors.ErrEmptyRoute, "Resolve the route before saving the tour", nil)
			return
		}
		if errors.Is(err, services.ErrEmptyName) || errors.Is(err, services.ErrInvalidStopKind) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to save tour", err)
		return
	}

	if log != nil {
		log.Info("Tour archived", map[string]interface{}{
			"tour_id": tour.ID,
			"name":    tour.Name,
		})
	}

	c.JSON(http.StatusCreated, tour)
}

// List handles GET /api/v1/tours.
// It returns saved tour summaries, newest first.
func (h *ArchiveHandler) List(c *gin.Context) {
	tours, err := h.archive.List(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list tours", err)
		return
	}

	summaries := make([]TourSummary, 0, len(tours))
	for _, t := range tours {
		summary := TourSummary{
			ID:        t.ID,
			Name:      t.Name,
			StopCount: len(t.Stops),
			CreatedAt: t.CreatedAt,
		}
		if start := t.StartingPoint(); start != nil {
			summary.StartsFrom = start.Name
		}
		summaries = append(summaries, summary)
	}

	c.JSON(http.StatusOK, TourListResponse{
		Tours: summaries,
		Count: len(summaries),
	})
}

// Load handles GET /api/v1/tours/:id.
// It returns the full saved tour plus the selection state rebuilt from
// its stops.
func (h *ArchiveHandler) Load(c *gin.Context) {
	id, ok := tourID(c)
	if !ok {
		return
	}

	loaded, err := h.archive.Load(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTourNotFound) {
			apierrors.NotFound(c, "No saved tour with this id")
			return
		}
		apierrors.InternalServerError(c, "Failed to load tour", err)
		return
	}

	c.JSON(http.StatusOK, loaded)
}

// Rename handles PATCH /api/v1/tours/:id.
func (h *ArchiveHandler) Rename(c *gin.Context) {
	id, ok := tourID(c)
	if !ok {
		return
	}

	var req RenameTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if err := h.archive.Rename(c.Request.Context(), id, req.Name); err != nil {
		if errors.Is(err, services.ErrTourNotFound) {
			apierrors.NotFound(c, "No saved tour with this id")
			return
		}
		if errors.Is(err, services.ErrEmptyName) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to rename tour", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/tours/:id.
func (h *ArchiveHandler) Delete(c *gin.Context) {
	id, ok := tourID(c)
	if !ok {
		return
	}

	if err := h.archive.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrTourNotFound) {
			apierrors.NotFound(c, "No saved tour with this id")
			return
		}
		apierrors.InternalServerError(c, "Failed to delete tour", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// tourID parses the :id path parameter. It writes the error response
// itself and reports success through the bool.
func tourID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid tour id", nil)
		return uuid.Nil, false
	}
	return id, true
}
