package service

import (
	"context"
	"time"

	"github.com/driveloop/carrental-api/internal/models"
	"github.com/driveloop/carrental-api/pkg/stripe"
	"gorm.io/gorm"
)

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*models.Booking, error)
	hasOverlapFn func(ctx context.Context, carID string, start, end time.Time, statuses []models.BookingStatus) (bool, error)
	byRenterFn   func(ctx context.Context, renterID string) ([]models.Booking, error)
	byOwnerFn    func(ctx context.Context, ownerID string) ([]models.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockBookingRepo) FindByRenter(ctx context.Context, renterID string) ([]models.Booking, error) {
	return m.byRenterFn(ctx, renterID)
}

func (m *mockBookingRepo) FindByOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	return m.byOwnerFn(ctx, ownerID)
}

func (m *mockBookingRepo) HasOverlap(ctx context.Context, carID string, start, end time.Time, statuses []models.BookingStatus) (bool, error) {
	return m.hasOverlapFn(ctx, carID, start, end, statuses)
}

func (m *mockBookingRepo) TransitionStatus(ctx context.Context, tx *gorm.DB, bookingID string, from, to models.BookingStatus) (bool, error) {
	return false, nil
}

func (m *mockBookingRepo) ConfirmPaid(ctx context.Context, tx *gorm.DB, bookingID string) (bool, error) {
	return false, nil
}

func (m *mockBookingRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, b *models.Booking) (bool, error) {
	return true, nil
}

func (m *mockBookingRepo) CountByOwnerStatus(ctx context.Context, ownerID string, status models.BookingStatus) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepo) PaidRevenueByOwner(ctx context.Context, ownerID string) (float64, error) {
	return 0, nil
}

func (m *mockBookingRepo) RecentByOwner(ctx context.Context, ownerID string, limit int) ([]models.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) GetDB() *gorm.DB { return nil }

// --- Mock CarRepository ---

type mockCarRepo struct {
	findByIDFn func(ctx context.Context, id string) (*models.Car, error)
}

func (m *mockCarRepo) Create(ctx context.Context, car *models.Car) error { return nil }

func (m *mockCarRepo) FindByID(ctx context.Context, id string) (*models.Car, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockCarRepo) FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Car, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCarRepo) FindByOwner(ctx context.Context, ownerID string) ([]models.Car, error) {
	return nil, nil
}

func (m *mockCarRepo) Update(ctx context.Context, car *models.Car) error { return nil }

func (m *mockCarRepo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	return false, nil
}

func (m *mockCarRepo) SetAvailability(ctx context.Context, tx *gorm.DB, carID string, available bool) error {
	return nil
}

func (m *mockCarRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return 0, nil
}

// --- Mock PurchaseRepository ---

type mockPurchaseRepo struct {
	findByIDFn func(ctx context.Context, id string) (*models.Purchase, error)
}

func (m *mockPurchaseRepo) Create(ctx context.Context, tx *gorm.DB, p *models.Purchase) error {
	return nil
}

func (m *mockPurchaseRepo) FindByID(ctx context.Context, id string) (*models.Purchase, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockPurchaseRepo) SetSessionID(ctx context.Context, id, sessionID string) error {
	return nil
}

func (m *mockPurchaseRepo) TransitionFromPending(ctx context.Context, tx *gorm.DB, id string, to models.PurchaseStatus) (bool, error) {
	return false, nil
}

// --- Mock hold Store ---

type mockHolds struct {
	acquireFn func(ctx context.Context, carID, purchaseID string, start, end time.Time) (bool, error)
	released  int
}

func (m *mockHolds) Acquire(ctx context.Context, carID, purchaseID string, start, end time.Time) (bool, error) {
	if m.acquireFn != nil {
		return m.acquireFn(ctx, carID, purchaseID, start, end)
	}
	return true, nil
}

func (m *mockHolds) Release(ctx context.Context, carID, purchaseID string, start, end time.Time) error {
	m.released++
	return nil
}

// --- Mock payment Gateway ---

type mockGateway struct {
	createFn   func(ctx context.Context, p stripe.CheckoutParams) (*stripe.Session, error)
	retrieveFn func(ctx context.Context, sessionID string) (*stripe.Session, error)
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, p stripe.CheckoutParams) (*stripe.Session, error) {
	return m.createFn(ctx, p)
}

func (m *mockGateway) RetrieveSession(ctx context.Context, sessionID string) (*stripe.Session, error) {
	return m.retrieveFn(ctx, sessionID)
}
