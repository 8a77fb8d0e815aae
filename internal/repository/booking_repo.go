package repository

import (
	"context"
	"time"

	"github.com/driveloop/carrental-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByRenter(ctx context.Context, renterID string) ([]models.Booking, error)
	FindByOwner(ctx context.Context, ownerID string) ([]models.Booking, error)
	HasOverlap(ctx context.Context, carID string, start, end time.Time, statuses []models.BookingStatus) (bool, error)
	TransitionStatus(ctx context.Context, tx *gorm.DB, bookingID string, from, to models.BookingStatus) (bool, error)
	ConfirmPaid(ctx context.Context, tx *gorm.DB, bookingID string) (bool, error)
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, booking *models.Booking) (bool, error)
	CountByOwnerStatus(ctx context.Context, ownerID string, status models.BookingStatus) (int64, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	PaidRevenueByOwner(ctx context.Context, ownerID string) (float64, error)
	RecentByOwner(ctx context.Context, ownerID string, limit int) ([]models.Booking, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByRenter(ctx context.Context, renterID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Car").
		Where("renter_id = ?", renterID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Car").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// HasOverlap reports whether any booking in one of the given statuses
// intersects [start, end) on the same car. Half-open ranges: touching
// endpoints do not conflict.
func (r *bookingRepository) HasOverlap(ctx context.Context, carID string, start, end time.Time, statuses []models.BookingStatus) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("car_id = ? AND status IN ? AND start_date < ? AND end_date > ?", carID, statuses, end, start).
		Count(&count).Error
	return count > 0, err
}

// TransitionStatus performs the guarded transition from -> to. A false
// return means the row was not in the required source state; the caller
// decides whether that is a conflict or an idempotent no-op.
func (r *bookingRepository) TransitionStatus(ctx context.Context, tx *gorm.DB, bookingID string, from, to models.BookingStatus) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

// ConfirmPaid marks a booking paid in one guarded update: Pending rows
// move to Confirmed, rows the owner already approved just gain the paid
// flag. Cancelled and Completed rows are left alone.
func (r *bookingRepository) ConfirmPaid(ctx context.Context, tx *gorm.DB, bookingID string) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status IN ?", bookingID, []models.BookingStatus{models.BookingPending, models.BookingConfirmed}).
		Updates(map[string]any{
			"status":         models.BookingConfirmed,
			"payment_status": models.PaymentPaid,
		})
	return res.RowsAffected == 1, res.Error
}

// CreateIfAbsent inserts the booking under its pre-allocated ID and is
// a no-op when a row with that ID already exists, so racing
// reconciliation triggers cannot produce two rows. False means the row
// existed.
func (r *bookingRepository) CreateIfAbsent(ctx context.Context, tx *gorm.DB, booking *models.Booking) (bool, error) {
	res := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(booking)
	return res.RowsAffected == 1, res.Error
}

func (r *bookingRepository) CountByOwnerStatus(ctx context.Context, ownerID string, status models.BookingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("owner_id = ? AND status = ?", ownerID, status).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) PaidRevenueByOwner(ctx context.Context, ownerID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("owner_id = ? AND payment_status = ?", ownerID, models.PaymentPaid).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}

func (r *bookingRepository) RecentByOwner(ctx context.Context, ownerID string, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Car").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}
