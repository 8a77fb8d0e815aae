package models

import "time"

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "Completed"
	PurchaseFailed    PurchaseStatus = "failed"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s PurchaseStatus) Terminal() bool {
	return s != PurchasePending
}

// Purchase records one payment attempt and correlates the gateway
// checkout session with a not-yet-finalized booking. BookingID is
// allocated up front, so purchase and booking join 1:1 without a
// lookup table. Only the reconciler mutates a purchase, and only
// through a guarded pending->terminal transition.
type Purchase struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	RenterID  string         `gorm:"type:uuid;not null;index" json:"renter_id"`
	CarID     string         `gorm:"type:uuid;not null;index" json:"car_id"`
	BookingID string         `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`
	Amount    float64        `gorm:"not null" json:"amount"`
	StartDate time.Time      `gorm:"not null" json:"start_date"`
	EndDate   time.Time      `gorm:"not null" json:"end_date"`
	SessionID string         `gorm:"index" json:"session_id"`
	Status    PurchaseStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
