package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/driveloop/carrental-api/internal/holds"
	"github.com/driveloop/carrental-api/internal/models"
	"github.com/driveloop/carrental-api/internal/repository"
	"github.com/driveloop/carrental-api/pkg/stripe"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PaymentService reconciles asynchronous payment outcomes into the
// booking record. Three entry points (client verify, signed webhook,
// client cancel) all funnel into one guarded pending->terminal
// purchase transition, so double firing is an idempotent no-op rather
// than a double charge or double booking.
type PaymentService interface {
	VerifyPayment(ctx context.Context, sessionID string, succeeded bool) error
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
	CancelPayment(ctx context.Context, sessionID string) error
}

type paymentService struct {
	bookingRepo   repository.BookingRepository
	carRepo       repository.CarRepository
	purchaseRepo  repository.PurchaseRepository
	gateway       stripe.Gateway
	holds         holds.Store
	publisher     EventPublisher
	webhookSecret string
}

func NewPaymentService(
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	purchaseRepo repository.PurchaseRepository,
	gateway stripe.Gateway,
	holdStore holds.Store,
	publisher EventPublisher,
	webhookSecret string,
) PaymentService {
	return &paymentService{
		bookingRepo:   bookingRepo,
		carRepo:       carRepo,
		purchaseRepo:  purchaseRepo,
		gateway:       gateway,
		holds:         holdStore,
		publisher:     publisher,
		webhookSecret: webhookSecret,
	}
}

// VerifyPayment is the client-driven reconciliation path: the renter
// lands back on the site with the gateway session token and asserts
// the outcome. The session is resolved server-side; only its
// purchaseId metadata is trusted, and only after the local purchase
// row confirms it.
func (s *paymentService) VerifyPayment(ctx context.Context, sessionID string, succeeded bool) error {
	purchaseID, err := s.resolvePurchaseID(ctx, sessionID)
	if err != nil {
		return err
	}
	if succeeded {
		return s.completePurchase(ctx, purchaseID)
	}
	return s.settlePurchase(ctx, purchaseID, models.PurchaseFailed)
}

// HandleWebhook is the gateway-driven path. The signature check runs
// before anything else touches the payload or the database.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := stripe.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return err
	}

	switch event.Type {
	case stripe.EventCheckoutCompleted, stripe.EventCheckoutExpired, stripe.EventPaymentFailed:
	default:
		logrus.WithField("type", event.Type).Debug("ignoring webhook event")
		return nil
	}

	purchaseID := event.Data.Object.Metadata[stripe.MetaPurchaseID]
	if purchaseID == "" {
		return fmt.Errorf("%w: session %s", ErrMissingPurchaseRef, event.Data.Object.ID)
	}

	switch event.Type {
	case stripe.EventCheckoutExpired:
		return s.settlePurchase(ctx, purchaseID, models.PurchaseCancelled)
	case stripe.EventPaymentFailed:
		return s.settlePurchase(ctx, purchaseID, models.PurchaseFailed)
	}
	return s.completePurchase(ctx, purchaseID)
}

// CancelPayment handles the renter abandoning checkout. Losing the
// race against a late webhook is fine: the purchase is already
// terminal and this becomes a no-op.
func (s *paymentService) CancelPayment(ctx context.Context, sessionID string) error {
	purchaseID, err := s.resolvePurchaseID(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.settlePurchase(ctx, purchaseID, models.PurchaseCancelled)
}

func (s *paymentService) resolvePurchaseID(ctx context.Context, sessionID string) (string, error) {
	session, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	purchaseID := session.Metadata[stripe.MetaPurchaseID]
	if purchaseID == "" {
		return "", ErrPurchaseNotFound
	}
	return purchaseID, nil
}

// completePurchase runs the success transition: purchase
// pending->Completed and booking Pending->Confirmed/Paid in one
// transaction. The booking row is recreated under its pre-allocated ID
// if it is missing, and both writes are guarded so a racing trigger
// observes a terminal purchase and does nothing.
func (s *paymentService) completePurchase(ctx context.Context, purchaseID string) error {
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseNotFound
		}
		return err
	}
	if purchase.Status.Terminal() {
		return nil
	}

	car, err := s.carRepo.FindByID(ctx, purchase.CarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithFields(logrus.Fields{
				"purchase_id": purchaseID,
				"car_id":      purchase.CarID,
			}).Error("car vanished between checkout and reconciliation")
			return ErrReconcileInconsistent
		}
		return err
	}

	var confirmed *models.Booking
	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.purchaseRepo.TransitionFromPending(ctx, tx, purchaseID, models.PurchaseCompleted)
		if err != nil {
			return err
		}
		if !ok {
			return nil // another trigger already settled it
		}

		flipped, err := s.bookingRepo.ConfirmPaid(ctx, tx, purchase.BookingID)
		if err != nil {
			return err
		}
		if !flipped {
			booking := &models.Booking{
				ID:            purchase.BookingID,
				CarID:         purchase.CarID,
				RenterID:      purchase.RenterID,
				OwnerID:       car.OwnerID,
				StartDate:     purchase.StartDate,
				EndDate:       purchase.EndDate,
				TotalPrice:    purchase.Amount,
				Status:        models.BookingConfirmed,
				PaymentStatus: models.PaymentPaid,
			}
			inserted, err := s.bookingRepo.CreateIfAbsent(ctx, tx, booking)
			if err != nil {
				return err
			}
			if !inserted {
				// The row exists in a terminal state: the renter
				// cancelled, or the owner completed, before the payment
				// landed. Roll back so the purchase stays pending and
				// the money state is visible for recovery.
				logrus.WithFields(logrus.Fields{
					"purchase_id": purchaseID,
					"booking_id":  purchase.BookingID,
				}).Error("payment landed on a terminal booking")
				return ErrReconcileInconsistent
			}
		}

		if err := s.carRepo.SetAvailability(ctx, tx, purchase.CarID, false); err != nil {
			return err
		}

		confirmed = &models.Booking{ID: purchase.BookingID}
		return nil
	})
	if err != nil {
		return err
	}

	if confirmed != nil {
		_ = s.holds.Release(ctx, purchase.CarID, purchaseID, purchase.StartDate, purchase.EndDate)
		if booking, err := s.bookingRepo.FindByID(ctx, purchase.BookingID); err == nil {
			s.publishConfirmed(booking)
		}
		logrus.WithFields(logrus.Fields{
			"purchase_id": purchaseID,
			"booking_id":  purchase.BookingID,
		}).Info("payment reconciled, booking confirmed")
	}
	return nil
}

// settlePurchase runs the failed/cancelled transitions. No booking is
// confirmed; the eager Pending booking is cancelled so the attempt
// leaves nothing behind, and the slot hold is released for a retry.
func (s *paymentService) settlePurchase(ctx context.Context, purchaseID string, to models.PurchaseStatus) error {
	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseNotFound
		}
		return err
	}
	if purchase.Status.Terminal() {
		return nil
	}

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.purchaseRepo.TransitionFromPending(ctx, tx, purchaseID, to)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		_, err = s.bookingRepo.TransitionStatus(ctx, tx, purchase.BookingID, models.BookingPending, models.BookingCancelled)
		return err
	})
	if err != nil {
		return err
	}

	_ = s.holds.Release(ctx, purchase.CarID, purchaseID, purchase.StartDate, purchase.EndDate)
	return nil
}

func (s *paymentService) publishConfirmed(booking *models.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(EventBookingConfirmed, booking); err != nil {
		logrus.WithError(err).WithField("booking_id", booking.ID).
			Warn("failed to publish booking event")
	}
}
