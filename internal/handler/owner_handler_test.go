package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/driveloop/carrental-api/internal/dto"
	"github.com/driveloop/carrental-api/internal/models"
	"github.com/driveloop/carrental-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock OwnerService ---

type mockOwnerService struct {
	becomeFn    func(ctx context.Context, userID string) (*models.User, error)
	addCarFn    func(ctx context.Context, car *models.Car) error
	updateFn    func(ctx context.Context, ownerID string, car *models.Car) (*models.Car, error)
	deleteFn    func(ctx context.Context, ownerID, carID string) error
	carsFn      func(ctx context.Context, ownerID string) ([]models.Car, error)
	getCarFn    func(ctx context.Context, ownerID, carID string) (*models.Car, error)
	toggleFn    func(ctx context.Context, ownerID, carID string) (*models.Car, error)
	dashboardFn func(ctx context.Context, ownerID string) (*service.DashboardData, error)
}

func (m *mockOwnerService) BecomeOwner(ctx context.Context, userID string) (*models.User, error) {
	return m.becomeFn(ctx, userID)
}
func (m *mockOwnerService) AddCar(ctx context.Context, car *models.Car) error {
	return m.addCarFn(ctx, car)
}
func (m *mockOwnerService) UpdateCar(ctx context.Context, ownerID string, car *models.Car) (*models.Car, error) {
	return m.updateFn(ctx, ownerID, car)
}
func (m *mockOwnerService) DeleteCar(ctx context.Context, ownerID, carID string) error {
	return m.deleteFn(ctx, ownerID, carID)
}
func (m *mockOwnerService) OwnerCars(ctx context.Context, ownerID string) ([]models.Car, error) {
	return m.carsFn(ctx, ownerID)
}
func (m *mockOwnerService) GetCar(ctx context.Context, ownerID, carID string) (*models.Car, error) {
	return m.getCarFn(ctx, ownerID, carID)
}
func (m *mockOwnerService) ToggleAvailability(ctx context.Context, ownerID, carID string) (*models.Car, error) {
	return m.toggleFn(ctx, ownerID, carID)
}
func (m *mockOwnerService) Dashboard(ctx context.Context, ownerID string) (*service.DashboardData, error) {
	return m.dashboardFn(ctx, ownerID)
}

func TestBecomeOwner_Handler(t *testing.T) {
	svc := &mockOwnerService{
		becomeFn: func(ctx context.Context, userID string) (*models.User, error) {
			return &models.User{ID: userID, Role: models.RoleOwner}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/api/owner/become", "", "user-1")
	require.NoError(t, NewOwnerHandler(svc).BecomeOwner(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleOwner, resp.User.Role)
}

func TestAddCar_Handler_Success(t *testing.T) {
	svc := &mockOwnerService{
		addCarFn: func(ctx context.Context, car *models.Car) error {
			assert.Equal(t, "owner-1", car.OwnerID)
			assert.Equal(t, "BMW", car.Brand)
			return nil
		},
	}

	body := `{"brand":"BMW","model":"X5","price_per_day":120,"register_number":"AB-1234"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/owner/cars", body, "owner-1")

	require.NoError(t, NewOwnerHandler(svc).AddCar(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAddCar_Handler_MissingFields(t *testing.T) {
	body := `{"brand":"BMW"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/owner/cars", body, "owner-1")

	err := NewOwnerHandler(&mockOwnerService{}).AddCar(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetCar_Handler_InvalidID(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet, "/api/owner/cars/abc", "", "owner-1")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := NewOwnerHandler(&mockOwnerService{}).GetCar(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDeleteCar_Handler_NotFound(t *testing.T) {
	svc := &mockOwnerService{
		deleteFn: func(ctx context.Context, ownerID, carID string) error {
			return service.ErrCarNotFound
		},
	}

	c, _ := newTestContext(t, http.MethodDelete, "/api/owner/cars/"+carUUID, "", "owner-1")
	c.SetParamNames("id")
	c.SetParamValues(carUUID)

	err := NewOwnerHandler(svc).DeleteCar(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestDashboard_Handler(t *testing.T) {
	svc := &mockOwnerService{
		dashboardFn: func(ctx context.Context, ownerID string) (*service.DashboardData, error) {
			return &service.DashboardData{TotalCars: 3, ConfirmedBookings: 2, MonthlyRevenue: 740}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/owner/dashboard", "", "owner-1")
	require.NoError(t, NewOwnerHandler(svc).Dashboard(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.DashboardData.TotalCars)
	assert.Equal(t, float64(740), resp.DashboardData.MonthlyRevenue)
}
