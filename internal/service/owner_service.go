package service

import (
	"context"
	"errors"

	"github.com/driveloop/carrental-api/internal/models"
	"github.com/driveloop/carrental-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DashboardData aggregates an owner's fleet and booking activity.
type DashboardData struct {
	TotalCars         int64            `json:"total_cars"`
	TotalBookings     int64            `json:"total_bookings"`
	PendingBookings   int64            `json:"pending_bookings"`
	ConfirmedBookings int64            `json:"confirmed_bookings"`
	CompletedBookings int64            `json:"completed_bookings"`
	RecentBookings    []models.Booking `json:"recent_bookings"`
	MonthlyRevenue    float64          `json:"monthly_revenue"`
}

type OwnerService interface {
	BecomeOwner(ctx context.Context, userID string) (*models.User, error)
	AddCar(ctx context.Context, car *models.Car) error
	UpdateCar(ctx context.Context, ownerID string, car *models.Car) (*models.Car, error)
	DeleteCar(ctx context.Context, ownerID, carID string) error
	OwnerCars(ctx context.Context, ownerID string) ([]models.Car, error)
	GetCar(ctx context.Context, ownerID, carID string) (*models.Car, error)
	ToggleAvailability(ctx context.Context, ownerID, carID string) (*models.Car, error)
	Dashboard(ctx context.Context, ownerID string) (*DashboardData, error)
}

type ownerService struct {
	userRepo    repository.UserRepository
	carRepo     repository.CarRepository
	bookingRepo repository.BookingRepository
}

func NewOwnerService(userRepo repository.UserRepository, carRepo repository.CarRepository, bookingRepo repository.BookingRepository) OwnerService {
	return &ownerService{userRepo: userRepo, carRepo: carRepo, bookingRepo: bookingRepo}
}

func (s *ownerService) BecomeOwner(ctx context.Context, userID string) (*models.User, error) {
	ok, err := s.userRepo.UpdateRole(ctx, userID, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.userRepo.FindByID(ctx, userID)
}

func (s *ownerService) AddCar(ctx context.Context, car *models.Car) error {
	if car.ID == "" {
		car.ID = uuid.NewString()
	}
	car.IsAvailable = true
	return s.carRepo.Create(ctx, car)
}

func (s *ownerService) UpdateCar(ctx context.Context, ownerID string, car *models.Car) (*models.Car, error) {
	existing, err := s.carRepo.FindByIDForOwner(ctx, car.ID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}

	car.OwnerID = existing.OwnerID
	car.IsAvailable = existing.IsAvailable
	car.CreatedAt = existing.CreatedAt
	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *ownerService) DeleteCar(ctx context.Context, ownerID, carID string) error {
	ok, err := s.carRepo.Delete(ctx, carID, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCarNotFound
	}
	return nil
}

func (s *ownerService) OwnerCars(ctx context.Context, ownerID string) ([]models.Car, error) {
	return s.carRepo.FindByOwner(ctx, ownerID)
}

func (s *ownerService) GetCar(ctx context.Context, ownerID, carID string) (*models.Car, error) {
	car, err := s.carRepo.FindByIDForOwner(ctx, carID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return car, nil
}

func (s *ownerService) ToggleAvailability(ctx context.Context, ownerID, carID string) (*models.Car, error) {
	car, err := s.GetCar(ctx, ownerID, carID)
	if err != nil {
		return nil, err
	}
	car.IsAvailable = !car.IsAvailable
	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *ownerService) Dashboard(ctx context.Context, ownerID string) (*DashboardData, error) {
	data := &DashboardData{}

	var err error
	if data.TotalCars, err = s.carRepo.CountByOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if data.TotalBookings, err = s.bookingRepo.CountByOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if data.PendingBookings, err = s.bookingRepo.CountByOwnerStatus(ctx, ownerID, models.BookingPending); err != nil {
		return nil, err
	}
	if data.ConfirmedBookings, err = s.bookingRepo.CountByOwnerStatus(ctx, ownerID, models.BookingConfirmed); err != nil {
		return nil, err
	}
	if data.CompletedBookings, err = s.bookingRepo.CountByOwnerStatus(ctx, ownerID, models.BookingCompleted); err != nil {
		return nil, err
	}
	if data.MonthlyRevenue, err = s.bookingRepo.PaidRevenueByOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if data.RecentBookings, err = s.bookingRepo.RecentByOwner(ctx, ownerID, 5); err != nil {
		return nil, err
	}
	return data, nil
}
