package dto

import (
	"github.com/driveloop/carrental-api/internal/models"
	"github.com/driveloop/carrental-api/internal/service"
)

// Every response carries the {success, message?} envelope the clients
// key off.

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func OK(message string) Response {
	return Response{Success: true, Message: message}
}

type CheckoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	URL     string `json:"url"`
}

type BookingResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Booking *models.Booking `json:"booking,omitempty"`
}

type BookingsResponse struct {
	Success  bool             `json:"success"`
	Bookings []models.Booking `json:"bookings"`
}

type CarResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Car     *models.Car `json:"car,omitempty"`
}

type CarsResponse struct {
	Success bool         `json:"success"`
	Cars    []models.Car `json:"cars"`
}

type UserResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

type DashboardResponse struct {
	Success       bool                   `json:"success"`
	DashboardData *service.DashboardData `json:"dashboardData"`
}
