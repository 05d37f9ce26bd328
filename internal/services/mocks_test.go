package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mwhitfield/showroute/api/internal/models"
	"github.com/mwhitfield/showroute/api/internal/routing"
)

// MockLocationRepository is a mock implementation of LocationRepository for testing
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) ListProperties(ctx context.Context) ([]models.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockLocationRepository) PropertiesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Property, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockLocationRepository) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Destination), args.Error(1)
}

func (m *MockLocationRepository) DestinationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Destination, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Destination), args.Error(1)
}

// MockMetricRepository is a mock implementation of MetricRepository for testing
type MockMetricRepository struct {
	mock.Mock
}

func (m *MockMetricRepository) Upsert(ctx context.Context, metric models.DistanceMetric) error {
	args := m.Called(ctx, metric)
	return args.Error(0)
}

func (m *MockMetricRepository) ExistingPairs(ctx context.Context) (map[models.PairKey]struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.PairKey]struct{}), args.Error(1)
}

func (m *MockMetricRepository) Query(ctx context.Context, propertyIDs, destinationIDs []uuid.UUID) ([]models.DistanceMetric, error) {
	args := m.Called(ctx, propertyIDs, destinationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DistanceMetric), args.Error(1)
}

// MockTourRepository is a mock implementation of TourRepository for testing
type MockTourRepository struct {
	mock.Mock
}

func (m *MockTourRepository) Insert(ctx context.Context, tour models.SavedTour) error {
	args := m.Called(ctx, tour)
	return args.Error(0)
}

func (m *MockTourRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.SavedTour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavedTour), args.Error(1)
}

func (m *MockTourRepository) List(ctx context.Context) ([]models.SavedTour, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SavedTour), args.Error(1)
}

func (m *MockTourRepository) Rename(ctx context.Context, id uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, id, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockTourRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockRouteProvider is a mock implementation of routing.Provider for testing
type MockRouteProvider struct {
	mock.Mock
}

func (m *MockRouteProvider) Route(ctx context.Context, req routing.RouteRequest) (*routing.RouteResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*routing.RouteResult), args.Error(1)
}
