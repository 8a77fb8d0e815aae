package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/driveloop/carrental-api/internal/holds"
	"github.com/driveloop/carrental-api/internal/models"
	"github.com/driveloop/carrental-api/internal/repository"
	"github.com/driveloop/carrental-api/pkg/stripe"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Routing keys for booking lifecycle events.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
)

// EventPublisher emits lifecycle events; nil disables publishing.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, renterID, carID string, start, end time.Time) (redirectURL string, err error)
	MyBookings(ctx context.Context, renterID string) ([]models.Booking, error)
	CancelBooking(ctx context.Context, renterID, bookingID string) (*models.Booking, error)

	ApproveBooking(ctx context.Context, ownerID, bookingID string) (*models.Booking, error)
	RejectBooking(ctx context.Context, ownerID, bookingID string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, ownerID, bookingID string) (*models.Booking, error)
	OwnerBookings(ctx context.Context, ownerID string) ([]models.Booking, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	carRepo      repository.CarRepository
	purchaseRepo repository.PurchaseRepository
	gateway      stripe.Gateway
	holds        holds.Store
	publisher    EventPublisher
	clientURL    string
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	purchaseRepo repository.PurchaseRepository,
	gateway stripe.Gateway,
	holdStore holds.Store,
	publisher EventPublisher,
	clientURL string,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		carRepo:      carRepo,
		purchaseRepo: purchaseRepo,
		gateway:      gateway,
		holds:        holdStore,
		publisher:    publisher,
		clientURL:    clientURL,
	}
}

// RentalDays counts billable days for [start, end); partial days round
// up.
func RentalDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// CreateBooking validates the request, reserves the slot and opens the
// payment attempt: a Pending unpaid Booking row plus a pending Purchase
// sharing a pre-allocated booking ID are written in one transaction,
// then a hosted checkout session is created and its URL returned.
func (s *bookingService) CreateBooking(ctx context.Context, renterID, carID string, start, end time.Time) (string, error) {
	if !end.After(start) {
		return "", ErrInvalidDateRange
	}
	days := RentalDays(start, end)
	if days <= 0 {
		return "", ErrInvalidDateRange
	}

	car, err := s.carRepo.FindByID(ctx, carID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCarNotFound
		}
		return "", err
	}

	overlap, err := s.bookingRepo.HasOverlap(ctx, carID, start, end, []models.BookingStatus{models.BookingConfirmed})
	if err != nil {
		return "", err
	}
	if overlap {
		return "", ErrDateConflict
	}

	totalPrice := float64(days) * car.PricePerDay
	bookingID := uuid.NewString()
	purchaseID := uuid.NewString()

	// Hold the slot while checkout is in flight; a concurrent checkout
	// for an overlapping range loses here instead of at the gateway.
	acquired, err := s.holds.Acquire(ctx, carID, purchaseID, start, end)
	if err != nil {
		return "", err
	}
	if !acquired {
		return "", ErrDateConflict
	}

	booking := &models.Booking{
		ID:            bookingID,
		CarID:         carID,
		RenterID:      renterID,
		OwnerID:       car.OwnerID,
		StartDate:     start,
		EndDate:       end,
		TotalPrice:    totalPrice,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
	}
	purchase := &models.Purchase{
		ID:        purchaseID,
		RenterID:  renterID,
		CarID:     carID,
		BookingID: bookingID,
		Amount:    totalPrice,
		StartDate: start,
		EndDate:   end,
		Status:    models.PurchasePending,
	}

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}
		return s.purchaseRepo.Create(ctx, tx, purchase)
	})
	if err != nil {
		_ = s.holds.Release(ctx, carID, purchaseID, start, end)
		return "", err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, stripe.CheckoutParams{
		AmountMinor: int64(math.Round(totalPrice * 100)),
		Currency:    "usd",
		ProductName: fmt.Sprintf("%s %s Rental", car.Brand, car.Model),
		Description: fmt.Sprintf("Rental from %s to %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006")),
		ImageURL:    car.Image,
		Metadata: map[string]string{
			stripe.MetaPurchaseID: purchaseID,
			stripe.MetaRenterID:   renterID,
			stripe.MetaCarID:      carID,
			stripe.MetaStartDate:  start.Format(time.RFC3339),
			stripe.MetaEndDate:    end.Format(time.RFC3339),
			stripe.MetaBookingID:  bookingID,
			stripe.MetaOwnerID:    car.OwnerID,
		},
		SuccessURL: s.clientURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.clientURL + "/payment-cancel?session_id={CHECKOUT_SESSION_ID}",
	})
	if err != nil {
		// The purchase stays pending so the renter can retry; the slot
		// is freed immediately.
		s.abandonAttempt(ctx, booking, purchaseID)
		return "", err
	}

	if err := s.purchaseRepo.SetSessionID(ctx, purchaseID, session.ID); err != nil {
		logrus.WithError(err).WithField("purchase_id", purchaseID).
			Warn("failed to record checkout session id")
	}

	return session.URL, nil
}

// abandonAttempt cancels the eager Pending booking and releases the
// hold after a gateway failure.
func (s *bookingService) abandonAttempt(ctx context.Context, booking *models.Booking, purchaseID string) {
	db := s.bookingRepo.GetDB()
	if _, err := s.bookingRepo.TransitionStatus(ctx, db, booking.ID, models.BookingPending, models.BookingCancelled); err != nil {
		logrus.WithError(err).WithField("booking_id", booking.ID).
			Warn("failed to cancel booking after gateway error")
	}
	_ = s.holds.Release(ctx, booking.CarID, purchaseID, booking.StartDate, booking.EndDate)
}

func (s *bookingService) MyBookings(ctx context.Context, renterID string) ([]models.Booking, error) {
	return s.bookingRepo.FindByRenter(ctx, renterID)
}

// CancelBooking is the renter-side cancellation: legal from any state
// except Cancelled. Cancelling a Confirmed booking frees the car.
func (s *bookingService) CancelBooking(ctx context.Context, renterID, bookingID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil || booking.RenterID != renterID {
		return nil, ErrBookingNotFound
	}
	if booking.Status == models.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}

	wasConfirmed := booking.Status == models.BookingConfirmed
	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.bookingRepo.TransitionStatus(ctx, tx, bookingID, booking.Status, models.BookingCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyCancelled
		}
		if wasConfirmed {
			return s.carRepo.SetAvailability(ctx, tx, booking.CarID, true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = models.BookingCancelled
	s.publish(EventBookingCancelled, booking)
	return booking, nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, ownerID, bookingID string) (*models.Booking, error) {
	return s.ownerTransition(ctx, ownerID, bookingID, models.BookingPending, models.BookingConfirmed, EventBookingConfirmed)
}

func (s *bookingService) RejectBooking(ctx context.Context, ownerID, bookingID string) (*models.Booking, error) {
	return s.ownerTransition(ctx, ownerID, bookingID, models.BookingPending, models.BookingCancelled, EventBookingCancelled)
}

func (s *bookingService) CompleteBooking(ctx context.Context, ownerID, bookingID string) (*models.Booking, error) {
	return s.ownerTransition(ctx, ownerID, bookingID, models.BookingConfirmed, models.BookingCompleted, EventBookingCompleted)
}

// ownerTransition runs one guarded owner-side lifecycle transition and
// its availability side effect in a single transaction.
func (s *bookingService) ownerTransition(ctx context.Context, ownerID, bookingID string, from, to models.BookingStatus, event string) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil || booking.OwnerID != ownerID {
		return nil, ErrBookingNotFound
	}

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.bookingRepo.TransitionStatus(ctx, tx, bookingID, from, to)
		if err != nil {
			return err
		}
		if !ok {
			// Re-read so a raced transition reports the current state.
			if cur, err := s.bookingRepo.FindByID(ctx, bookingID); err == nil {
				return &TransitionError{From: cur.Status, Required: from}
			}
			return &TransitionError{From: booking.Status, Required: from}
		}
		switch to {
		case models.BookingConfirmed:
			return s.carRepo.SetAvailability(ctx, tx, booking.CarID, false)
		case models.BookingCompleted:
			return s.carRepo.SetAvailability(ctx, tx, booking.CarID, true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = to
	s.publish(event, booking)
	return booking, nil
}

func (s *bookingService) OwnerBookings(ctx context.Context, ownerID string) ([]models.Booking, error) {
	return s.bookingRepo.FindByOwner(ctx, ownerID)
}

func (s *bookingService) publish(routingKey string, booking *models.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, booking); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"routing_key": routingKey,
			"booking_id":  booking.ID,
		}).Warn("failed to publish booking event")
	}
}
