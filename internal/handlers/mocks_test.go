package handlers

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mwhitfield/showroute/api/internal/models"
	"github.com/mwhitfield/showroute/api/internal/services"
)

// MockMatrixService is a mock implementation of services.MatrixService for testing
type MockMatrixService struct {
	mock.Mock
}

func (m *MockMatrixService) ComputeMissing(ctx context.Context, force bool) (services.ComputeReport, error) {
	args := m.Called(ctx, force)
	return args.Get(0).(services.ComputeReport), args.Error(1)
}

func (m *MockMatrixService) QueryDistances(ctx context.Context, propertyIDs, destinationIDs []uuid.UUID) ([]models.DistanceMetric, error) {
	args := m.Called(ctx, propertyIDs, destinationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DistanceMetric), args.Error(1)
}

// MockFilterService is a mock implementation of services.FilterService for testing
type MockFilterService struct {
	mock.Mock
}

func (m *MockFilterService) FilterDistances(ctx context.Context, sel services.FilterSelection) ([]services.DistanceView, error) {
	args := m.Called(ctx, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.DistanceView), args.Error(1)
}

// MockBuilderService is a mock implementation of services.BuilderService for testing
type MockBuilderService struct {
	mock.Mock
}

func (m *MockBuilderService) Build(ctx context.Context, start models.TourStop, propertyIDs, destinationIDs []uuid.UUID, moves []services.StopMove) ([]models.TourStop, error) {
	args := m.Called(ctx, start, propertyIDs, destinationIDs, moves)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TourStop), args.Error(1)
}

// MockRouteService is a mock implementation of services.RouteService for testing
type MockRouteService struct {
	mock.Mock
}

func (m *MockRouteService) Resolve(ctx context.Context, stops []models.TourStop, optimize bool) (*services.ResolvedTour, error) {
	args := m.Called(ctx, stops, optimize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ResolvedTour), args.Error(1)
}

// MockArchiveService is a mock implementation of services.ArchiveService for testing
type MockArchiveService struct {
	mock.Mock
}

func (m *MockArchiveService) Save(ctx context.Context, name string, stops []models.TourStop, route models.TourRoute) (*models.SavedTour, error) {
	args := m.Called(ctx, name, stops, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavedTour), args.Error(1)
}

func (m *MockArchiveService) List(ctx context.Context) ([]models.SavedTour, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SavedTour), args.Error(1)
}

func (m *MockArchiveService) Load(ctx context.Context, id uuid.UUID) (*services.LoadedTour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoadedTour), args.Error(1)
}

func (m *MockArchiveService) Rename(ctx context.Context, id uuid.UUID, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockArchiveService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockExportService is a mock implementation of services.ExportService for testing
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) WriteCSV(w io.Writer, rows []services.DistanceView) error {
	args := m.Called(w, rows)
	return args.Error(0)
}
