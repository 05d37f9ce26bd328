package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mwhitfield/showroute/api/internal/logger"
	"github.com/mwhitfield/showroute/api/internal/middleware"
	"github.com/mwhitfield/showroute/api/internal/models"
	"github.com/mwhitfield/showroute/api/internal/routing"
	"github.com/mwhitfield/showroute/api/internal/services"
)

// setupMatrixTestRouter creates a test router with middleware and matrix handlers.
func setupMatrixTestRouter(handler *MatrixHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.New("test")))

	v1 := router.Group("/api/v1")
	{
		distances := v1.Group("/distances")
		{
			distances.GET("", handler.Query)
			distances.POST("/compute", handler.Compute)
			distances.POST("/filter", handler.Filter)
			distances.POST("/export", handler.ExportCSV)
		}
	}

	return router
}

func TestCompute_Success(t *testing.T) {
	// Arrange
	mockMatrix := new(MockMatrixService)
	handler := NewMatrixHandler(mockMatrix, new(MockFilterService), new(MockExportService))
	router := setupMatrixTestRouter(handler)

	mockMatrix.On("ComputeMissing", mock.Anything, false).
		Return(services.ComputeReport{Calculated: 12, Errors: 1}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/distances/compute", strings.NewReader(`{"force":false}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var resp ComputeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Calculated)
	assert.Equal(t, 1, resp.Errors)
	assert.Equal(t, "Calculated 12 distances (1 errors)", resp.Message)
	mockMatrix.AssertExpectations(t)
}

func TestCompute_EmptyBodyDefaultsToMissingOnly(t *testing.T) {
	// Arrange
	mockMatrix := new(MockMatrixService)
	handler := NewMatrixHandler(mockMatrix, new(MockFilterService), new(MockExportService))
	router := setupMatrixTestRouter(handler)

	mockMatrix.On("ComputeMissing", mock.Anything, false).
		Return(services.ComputeReport{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/distances/compute", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	mockMatrix.AssertExpectations(t)
}

func TestCompute_ProviderUnavailable(t *testing.T) {
	// Arrange
	mockMatrix := new(MockMatrixService)
	handler := NewMatrixHandler(mockMatrix, new(MockFilterService), new(MockExportService))
	router := setupMatrixTestRouter(handler)

	mockMatrix.On("ComputeMissing", mock.Anything, true).
		Return(services.ComputeReport{}, routing.ErrProviderUnavailable)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/distances/compute", strings.NewReader(`{"force":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "PROVIDER_UNAVAILABLE")
}

func TestQuery_ReturnsMetrics(t *testing.T) {
	// Arrange
	mockMatrix := new(MockMatrixService)
	handler := NewMatrixHandler(mockMatrix, new(MockFilterService), new(MockExportService))
	router := setupMatrixTestRouter(handler)

	propertyID := uuid.New()
	metrics := []models.DistanceMetric{
		{PropertyID: propertyID, DestinationID: uuid.New()},
		{PropertyID: propertyID, DestinationID: uuid.New()},
	}
	mockMatrix.On("QueryDistances", mock.Anything, []uuid.UUID{propertyID}, []uuid.UUID(nil)).
		Return(metrics, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/distances?property_id="+propertyID.String(), nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var resp DistancesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Distances, 2)
}

func TestFilter_FormatsRows(t *testing.T) {
	// Arrange
	mockFilter := new(MockFilterService)
	handler := NewMatrixHandler(new(MockMatrixService), mockFilter, new(MockExportService))
	router := setupMatrixTestRouter(handler)

	propertyID := uuid.New()
	view := services.DistanceView{
		PropertyID:          propertyID,
		PropertyName:        "Listing A",
		DestinationName:     "Bergstrom",
		DestinationCategory: "International Airport",
		Metric: models.DistanceMetric{
			Driving: &models.ModeMetric{DistanceMeters: 16093.44, DurationSeconds: 1500},
		},
	}
	mockFilter.On("FilterDistances", mock.Anything, services.FilterSelection{
		PropertyIDs: []uuid.UUID{propertyID},
		Categories:  []string{"airport"},
	}).Return([]services.DistanceView{view}, nil)

	body, err := json.Marshal(FilterRequest{
		PropertyIDs: []uuid.UUID{propertyID},
		Categories:  []string{"airport"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/distances/filter", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var resp FilterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "10.00 mi", resp.Rows[0].DistanceMiles)
	assert.Equal(t, "16.09 km", resp.Rows[0].DistanceKm)
	assert.Equal(t, "25 min", resp.Rows[0].DrivingDuration)
	assert.Equal(t, "N/A", resp.Rows[0].WalkingDuration)
}

func TestFilter_InvalidBody(t *testing.T) {
	// Arrange
	handler := NewMatrixHandler(new(MockMatrixService), new(MockFilterService), new(MockExportService))
	router := setupMatrixTestRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/distances/filter", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportCSV_SetsAttachmentHeaders(t *testing.T) {
	// Arrange
	mockFilter := new(MockFilterService)
	mockExport := new(MockExportService)
	handler := NewMatrixHandler(new(MockMatrixService), mockFilter, mockExport)
	router := setupMatrixTestRouter(handler)

	propertyID := uuid.New()
	mockFilter.On("FilterDistances", mock.Anything, mock.Anything).
		Return([]services.DistanceView{}, nil)
	mockExport.On("WriteCSV", mock.Anything, []services.DistanceView{}).
		Run(func(args mock.Arguments) {
			w := args.Get(0).(io.Writer)
			_, _ = io.WriteString(w, "\"Property Name\"\r\n")
		}).
		Return(nil)

	body, err := json.Marshal(FilterRequest{
		PropertyIDs: []uuid.UUID{propertyID},
		Categories:  []string{"airport"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/distances/export", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "Property Name")
}
