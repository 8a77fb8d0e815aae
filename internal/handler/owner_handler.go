package handler

import (
	"net/http"

	"github.com/driveloop/carrental-api/internal/dto"
	"github.com/driveloop/carrental-api/internal/middleware"
	"github.com/driveloop/carrental-api/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OwnerHandler struct {
	svc service.OwnerService
}

func NewOwnerHandler(svc service.OwnerService) *OwnerHandler {
	return &OwnerHandler{svc: svc}
}

func (h *OwnerHandler) RegisterRoutes(auth, owner *echo.Group) {
	auth.POST("/owner/become", h.BecomeOwner)

	owner.POST("/cars", h.AddCar)
	owner.GET("/cars", h.OwnerCars)
	owner.GET("/cars/:id", h.GetCar)
	owner.PUT("/cars/:id", h.UpdateCar)
	owner.DELETE("/cars/:id", h.DeleteCar)
	owner.POST("/cars/:id/toggle", h.ToggleAvailability)
	owner.GET("/dashboard", h.Dashboard)
}

func (h *OwnerHandler) BecomeOwner(c echo.Context) error {
	user, err := h.svc.BecomeOwner(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.UserResponse{
		Success: true,
		Message: "Now you can list cars",
		User:    user,
	})
}

func (h *OwnerHandler) AddCar(c echo.Context) error {
	var req dto.CarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing car details")
	}

	car := req.ToModel(middleware.UserID(c))
	if err := h.svc.AddCar(c.Request().Context(), car); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, dto.CarResponse{Success: true, Message: "Car added", Car: car})
}

func (h *OwnerHandler) OwnerCars(c echo.Context) error {
	cars, err := h.svc.OwnerCars(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.CarsResponse{Success: true, Cars: cars})
}

func (h *OwnerHandler) GetCar(c echo.Context) error {
	carID := c.Param("id")
	if _, err := uuid.Parse(carID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid car id")
	}

	car, err := h.svc.GetCar(c.Request().Context(), middleware.UserID(c), carID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.CarResponse{Success: true, Car: car})
}

func (h *OwnerHandler) UpdateCar(c echo.Context) error {
	var req dto.CarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing car details")
	}

	car := req.ToModel(middleware.UserID(c))
	car.ID = c.Param("id")
	updated, err := h.svc.UpdateCar(c.Request().Context(), middleware.UserID(c), car)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.CarResponse{Success: true, Message: "Car updated", Car: updated})
}

func (h *OwnerHandler) DeleteCar(c echo.Context) error {
	if err := h.svc.DeleteCar(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.OK("Car removed"))
}

func (h *OwnerHandler) ToggleAvailability(c echo.Context) error {
	car, err := h.svc.ToggleAvailability(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.CarResponse{Success: true, Message: "Availability toggled", Car: car})
}

func (h *OwnerHandler) Dashboard(c echo.Context) error {
	data, err := h.svc.Dashboard(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.DashboardResponse{Success: true, DashboardData: data})
}
