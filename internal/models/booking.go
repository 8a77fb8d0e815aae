package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
	BookingCompleted BookingStatus = "Completed"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// Booking reserves one car for one renter over [StartDate, EndDate).
// The ID is allocated before the row is written so a Purchase can
// reference it while payment is still in flight.
type Booking struct {
	ID            string        `gorm:"type:uuid;primaryKey" json:"id"`
	CarID         string        `gorm:"type:uuid;not null;index" json:"car_id"`
	RenterID      string        `gorm:"type:uuid;not null;index" json:"renter_id"`
	OwnerID       string        `gorm:"type:uuid;not null;index" json:"owner_id"`
	StartDate     time.Time     `gorm:"not null" json:"start_date"`
	EndDate       time.Time     `gorm:"not null" json:"end_date"`
	TotalPrice    float64       `gorm:"not null" json:"total_price"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Car *Car `gorm:"foreignKey:CarID" json:"car,omitempty"`
}
