package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mwhitfield/showroute/api/internal/logger"
	"github.com/mwhitfield/showroute/api/internal/models"
)

// csvHeader is the fixed column set of a matrix export. Consumers key on
// these names; the order and spelling are part of the format.
var csvHeader = []string{
	"Property Name",
	"Property Address",
	"Property Type",
	"Destination Name",
	"Destination Address",
	"Destination Category",
	"Distance (Miles)",
	"Distance (KM)",
	"Driving Duration",
	"Walking Duration",
	"Transit Duration",
	"Calculated At",
}

// ExportService renders filtered matrix views into downloadable formats.
type ExportService interface {
	// WriteCSV streams the rows as CSV. Every field is double-quoted and
	// absent metrics render as N/A. Headers are written even for an empty
	// row set.
	WriteCSV(w io.Writer, rows []DistanceView) error
}

// exportService is the concrete implementation of ExportService.
type exportService struct {
	log *logger.Logger
}

// NewExportService creates a new instance of ExportService.
func NewExportService(log *logger.Logger) ExportService {
	return &exportService{log: log}
}

func (s *exportService) WriteCSV(w io.Writer, rows []DistanceView) error {
	if err := writeRecord(w, csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.PropertyName,
			row.PropertyAddress,
			row.PropertyType,
			row.DestinationName,
			row.DestinationAddress,
			row.DestinationCategory,
			milesField(row.Metric.Driving),
			kilometersField(row.Metric.Driving),
			models.FormatDurationOrNA(row.Metric.Driving),
			models.FormatDurationOrNA(row.Metric.Walking),
			models.FormatDurationOrNA(row.Metric.Transit),
			row.Metric.CalculatedAt.Format(time.RFC3339),
		}
		if err := writeRecord(w, record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	s.log.Info("Exported distance matrix CSV", map[string]interface{}{
		"rows": len(rows),
	})

	return nil
}

// writeRecord quotes every field unconditionally. encoding/csv quotes only
// when a field needs it, which breaks consumers that expect the fully
// quoted layout, so the escaping is done here.
func writeRecord(w io.Writer, fields []string) error {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func milesField(m *models.ModeMetric) string {
	if m == nil {
		return models.NotAvailable
	}
	return models.FormatMiles(m.DistanceMeters)
}

func kilometersField(m *models.ModeMetric) string {
	if m == nil {
		return models.NotAvailable
	}
	return models.FormatKilometers(m.DistanceMeters)
}
