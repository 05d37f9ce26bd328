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
	"github.com/mwhitfield/showroute/api/internal/routing"
	"github.com/mwhitfield/showroute/api/internal/services"
)

// MatrixHandler handles distance matrix HTTP requests.
type MatrixHandler struct {
	matrix services.MatrixService
	filter services.FilterService
	export services.ExportService
}

// NewMatrixHandler creates a new MatrixHandler instance.
func NewMatrixHandler(matrix services.MatrixService, filter services.FilterService, export services.ExportService) *MatrixHandler {
	return &MatrixHandler{
		matrix: matrix,
		filter: filter,
		export: export,
	}
}

// ComputeRequest represents the body of the compute endpoint.
type ComputeRequest struct {
	Force bool `json:"force"`
}

// ComputeResponse represents the outcome of a batch computation pass.
type ComputeResponse struct {
	Calculated int    `json:"calculated"`
	Errors     int    `json:"errors"`
	Message    string `json:"message"`
}

// QueryRequest represents the query parameters of the distances endpoint.
// Both parameters repeat: ?property_id=a&property_id=b.
type QueryRequest struct {
	PropertyIDs    []string `form:"property_id"`
	DestinationIDs []string `form:"destination_id"`
}

// DistancesResponse represents the response for the distances endpoint.
type DistancesResponse struct {
	Distances []models.DistanceMetric `json:"distances"`
	Count     int                     `json:"count"`
}

// FilterRequest represents the body of the filter and export endpoints.
type FilterRequest struct {
	PropertyIDs    []uuid.UUID `json:"propertyIds"`
	DestinationIDs []uuid.UUID `json:"destinationIds"`
	Categories     []string    `json:"categories"`
	Tags           []string    `json:"tags"`
}

// DistanceRow represents one filtered matrix row in the API response.
// Raw meters and seconds stay in the metric; the formatted fields carry
// the display rendering.
type DistanceRow struct {
	PropertyID          uuid.UUID             `json:"propertyId"`
	PropertyName        string                `json:"propertyName"`
	PropertyAddress     string                `json:"propertyAddress"`
	PropertyType        string                `json:"propertyType"`
	DestinationID       uuid.UUID             `json:"destinationId"`
	DestinationName     string                `json:"destinationName"`
	DestinationAddress  string                `json:"destinationAddress"`
	DestinationCategory string                `json:"destinationCategory"`
	Metric              models.DistanceMetric `json:"metric"`
	DistanceMiles       string                `json:"distanceMiles"`
	DistanceKm          string                `json:"distanceKm"`
	DrivingDuration     string                `json:"drivingDuration"`
	WalkingDuration     string                `json:"walkingDuration"`
	TransitDuration     string                `json:"transitDuration"`
}

// FilterResponse represents the response for the filter endpoint.
type FilterResponse struct {
	Rows  []DistanceRow `json:"rows"`
	Count int           `json:"count"`
}

// Compute handles POST /api/v1/distances/compute.
// It fills in missing matrix entries, or recomputes everything with force.
func (h *MatrixHandler) Compute(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req ComputeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body", nil)
			return
		}
	}

	if log != nil {
		log.Info("Processing compute request", map[string]interface{}{
			"force": req.Force,
		})
	}

	report, err := h.matrix.ComputeMissing(c.Request.Context(), req.Force)
	if err != nil {
		if errors.Is(err, routing.ErrProviderUnavailable) {
			apierrors.ServiceUnavailable(c, "Routing provider is unavailable, no distances were calculated", err)
			return
		}
		apierrors.InternalServerError(c, "Failed to compute distance matrix", err)
		return
	}

	c.JSON(http.StatusOK, ComputeResponse{
		Calculated: report.Calculated,
		Errors:     report.Errors,
		Message:    report.Message(),
	})
}

// Query handles GET /api/v1/distances.
// It returns stored metrics, optionally narrowed by property and
// destination ids, without triggering any computation.
func (h *MatrixHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	propertyIDs, err := parseIDs(req.PropertyIDs)
	if err != nil {
		apierrors.BadRequest(c, "Invalid property_id", nil)
		return
	}
	destinationIDs, err := parseIDs(req.DestinationIDs)
	if err != nil {
		apierrors.BadRequest(c, "Invalid destination_id", nil)
		return
	}

	metrics, err := h.matrix.QueryDistances(c.Request.Context(), propertyIDs, destinationIDs)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to query distances", err)
		return
	}

	c.JSON(http.StatusOK, DistancesResponse{
		Distances: metrics,
		Count:     len(metrics),
	})
}

// Filter handles POST /api/v1/distances/filter.
// It evaluates the compound selection and returns the matching rows with
// display formatting applied.
func (h *MatrixHandler) Filter(c *gin.Context) {
	views, ok := h.filteredViews(c)
	if !ok {
		return
	}

	rows := make([]DistanceRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, mapDistanceViewToRow(v))
	}

	c.JSON(http.StatusOK, FilterResponse{
		Rows:  rows,
		Count: len(rows),
	})
}

// ExportCSV handles POST /api/v1/distances/export.
// It streams the filtered rows as a CSV attachment.
func (h *MatrixHandler) ExportCSV(c *gin.Context) {
	views, ok := h.filteredViews(c)
	if !ok {
		return
	}

	filename := "distance-report-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if err := h.export.WriteCSV(c.Writer, views); err != nil {
		// Headers are already on the wire; all that is left is the log.
		log := middleware.GetLogger(c)
		if log != nil {
			log.Error("Failed to stream CSV export", err, nil)
		}
	}
}

// filteredViews binds the filter body and runs the selection. It writes
// the error response itself and reports success through the bool.
func (h *MatrixHandler) filteredViews(c *gin.Context) ([]services.DistanceView, bool) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return nil, false
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return nil, false
	}

	views, err := h.filter.FilterDistances(c.Request.Context(), services.FilterSelection{
		PropertyIDs:    req.PropertyIDs,
		DestinationIDs: req.DestinationIDs,
		Categories:     req.Categories,
		Tags:           req.Tags,
	})
	if err != nil {
		apierrors.InternalServerError(c, "Failed to filter distances", err)
		return nil, false
	}
	return views, true
}

// parseIDs parses raw query values into uuids. A nil input stays nil so
// the repository treats the facet as unselected.
func parseIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// mapDistanceViewToRow converts a service DistanceView to a response DTO.
func mapDistanceViewToRow(v services.DistanceView) DistanceRow {
	row := DistanceRow{
		PropertyID:          v.PropertyID,
		PropertyName:        v.PropertyName,
		PropertyAddress:     v.PropertyAddress,
		PropertyType:        v.PropertyType,
		DestinationID:       v.DestinationID,
		DestinationName:     v.DestinationName,
		DestinationAddress:  v.DestinationAddress,
		DestinationCategory: v.DestinationCategory,
		Metric:              v.Metric,
		DistanceMiles:       models.NotAvailable,
		DistanceKm:          models.NotAvailable,
		DrivingDuration:     models.FormatDurationOrNA(v.Metric.Driving),
		WalkingDuration:     models.FormatDurationOrNA(v.Metric.Walking),
		TransitDuration:     models.FormatDurationOrNA(v.Metric.Transit),
	}
	if v.Metric.Driving != nil {
		row.DistanceMiles = models.FormatMiles(v.Metric.Driving.DistanceMeters)
		row.DistanceKm = models.FormatKilometers(v.Metric.Driving.DistanceMeters)
	}
	return row
}
