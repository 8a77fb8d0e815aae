package repository

import (
	"context"

	"github.com/driveloop/carrental-api/internal/models"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, purchase *models.Purchase) error
	FindByID(ctx context.Context, id string) (*models.Purchase, error)
	SetSessionID(ctx context.Context, id, sessionID string) error
	TransitionFromPending(ctx context.Context, tx *gorm.DB, id string, to models.PurchaseStatus) (bool, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, tx *gorm.DB, purchase *models.Purchase) error {
	return tx.WithContext(ctx).Create(purchase).Error
}

func (r *purchaseRepository) FindByID(ctx context.Context, id string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) SetSessionID(ctx context.Context, id, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ?", id).
		Update("session_id", sessionID).Error
}

// TransitionFromPending is the single guard every reconciliation
// trigger goes through: the purchase moves to a terminal status only
// if it is still pending. A false return means another trigger won the
// race and the row is already terminal.
func (r *purchaseRepository) TransitionFromPending(ctx context.Context, tx *gorm.DB, id string, to models.PurchaseStatus) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, models.PurchasePending).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}
