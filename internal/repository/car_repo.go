package repository

import (
	"context"

	"github.com/driveloop/carrental-api/internal/models"
	"gorm.io/gorm"
)

type CarRepository interface {
	Create(ctx context.Context, car *models.Car) error
	FindByID(ctx context.Context, id string) (*models.Car, error)
	FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Car, error)
	FindByOwner(ctx context.Context, ownerID string) ([]models.Car, error)
	Update(ctx context.Context, car *models.Car) error
	Delete(ctx context.Context, id, ownerID string) (bool, error)
	SetAvailability(ctx context.Context, tx *gorm.DB, carID string, available bool) error
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

type carRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, car *models.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

func (r *carRepository) FindByID(ctx context.Context, id string) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).First(&car, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *carRepository) FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Car, error) {
	var car models.Car
	err := r.db.WithContext(ctx).
		First(&car, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *carRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Car, error) {
	var cars []models.Car
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&cars).Error
	return cars, err
}

func (r *carRepository) Update(ctx context.Context, car *models.Car) error {
	return r.db.WithContext(ctx).Save(car).Error
}

func (r *carRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Car{})
	return res.RowsAffected == 1, res.Error
}

// SetAvailability runs inside the same transaction as the booking
// status change it accompanies, so status and availability never
// disagree in a committed state.
func (r *carRepository) SetAvailability(ctx context.Context, tx *gorm.DB, carID string, available bool) error {
	return tx.WithContext(ctx).
		Model(&models.Car{}).
		Where("id = ?", carID).
		Update("is_available", available).Error
}

func (r *carRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Car{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}
