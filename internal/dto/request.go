package dto

import "github.com/driveloop/carrental-api/internal/models"

type CreateBookingRequest struct {
	CarID     string `json:"carId" validate:"required,uuid4"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type VerifyPaymentRequest struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId" validate:"required"`
}

type CancelPaymentRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type BookingActionRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid4"`
}

type CarRequest struct {
	ID              string   `json:"id"`
	Brand           string   `json:"brand" validate:"required"`
	Model           string   `json:"model" validate:"required"`
	Image           string   `json:"image"`
	Year            int      `json:"year"`
	Category        string   `json:"category"`
	SeatingCapacity int      `json:"seating_capacity"`
	FuelType        string   `json:"fuel_type"`
	Transmission    string   `json:"transmission"`
	PricePerDay     float64  `json:"price_per_day" validate:"required,gt=0"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	Mileage         string   `json:"mileage"`
	Features        []string `json:"features"`
	RegisterNumber  string   `json:"register_number" validate:"required"`
}

func (r CarRequest) ToModel(ownerID string) *models.Car {
	return &models.Car{
		ID:              r.ID,
		OwnerID:         ownerID,
		Brand:           r.Brand,
		Model:           r.Model,
		Image:           r.Image,
		Year:            r.Year,
		Category:        r.Category,
		SeatingCapacity: r.SeatingCapacity,
		FuelType:        r.FuelType,
		Transmission:    r.Transmission,
		PricePerDay:     r.PricePerDay,
		Location:        r.Location,
		Description:     r.Description,
		Mileage:         r.Mileage,
		Features:        models.Features(r.Features),
		RegisterNumber:  r.RegisterNumber,
	}
}
