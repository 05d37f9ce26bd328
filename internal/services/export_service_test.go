package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitfield/showroute/api/internal/logger"
	"github.com/mwhitfield/showroute/api/internal/models"
)

func TestWriteCSV_HeaderOnlyForEmptyRows(t *testing.T) {
	// Arrange
	service := NewExportService(logger.New("test"))
	var sb strings.Builder

	// Act
	err := service.WriteCSV(&sb, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t,
		`"Property Name","Property Address","Property Type","Destination Name","Destination Address","Destination Category","Distance (Miles)","Distance (KM)","Driving Duration","Walking Duration","Transit Duration","Calculated At"`+"\r\n",
		sb.String())
}

func TestWriteCSV_QuotesEveryFieldAndFormatsMetrics(t *testing.T) {
	// Arrange
	service := NewExportService(logger.New("test"))
	calculatedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	row := DistanceView{
		PropertyID:          uuid.New(),
		PropertyName:        "Listing A",
		PropertyAddress:     "100 Main St, Austin, TX",
		PropertyType:        "single-family",
		DestinationID:       uuid.New(),
		DestinationName:     "Bergstrom",
		DestinationAddress:  "3600 Presidential Blvd, Austin, TX",
		DestinationCategory: "International Airport",
		Metric: models.DistanceMetric{
			Driving:      &models.ModeMetric{DistanceMeters: 16093.44, DurationSeconds: 1500},
			Walking:      &models.ModeMetric{DistanceMeters: 16093.44, DurationSeconds: 12600},
			CalculatedAt: calculatedAt,
		},
	}
	var sb strings.Builder

	// Act
	err := service.WriteCSV(&sb, []DistanceView{row})

	// Assert
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(sb.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`"Listing A","100 Main St, Austin, TX","single-family","Bergstrom","3600 Presidential Blvd, Austin, TX","International Airport","10.00 mi","16.09 km","25 min","3 hr 30 min","N/A","2026-03-14T09:30:00Z"`,
		lines[1])
}

func TestWriteCSV_EscapesEmbeddedQuotes(t *testing.T) {
	// Arrange
	service := NewExportService(logger.New("test"))
	row := DistanceView{
		PropertyName:    `The "Blue Door" House`,
		DestinationName: "Cafe",
		Metric: models.DistanceMetric{
			CalculatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
	}
	var sb strings.Builder

	// Act
	err := service.WriteCSV(&sb, []DistanceView{row})

	// Assert
	require.NoError(t, err)
	assert.Contains(t, sb.String(), `"The ""Blue Door"" House"`)
	// Absent metrics render as N/A in every numeric column.
	assert.Contains(t, sb.String(), `"N/A","N/A","N/A","N/A","N/A"`)
}
