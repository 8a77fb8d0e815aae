package models

import "time"

// Car is a rentable asset listed by an owner. IsAvailable is driven by
// booking transitions (false on Confirmed, true on Completed or on a
// cancelled confirmed booking), not edited independently while a
// booking is active.
type Car struct {
	ID              string   `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID         string   `gorm:"type:uuid;not null;index" json:"owner_id"`
	Brand           string   `gorm:"not null" json:"brand"`
	Model           string   `gorm:"not null" json:"model"`
	Image           string   `json:"image"`
	Year            int      `json:"year"`
	Category        string   `json:"category"`
	SeatingCapacity int      `json:"seating_capacity"`
	FuelType        string   `json:"fuel_type"`
	Transmission    string   `json:"transmission"`
	PricePerDay     float64  `gorm:"not null" json:"price_per_day"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	IsAvailable     bool     `gorm:"not null;default:true" json:"is_available"`
	Mileage         string   `json:"mileage"`
	Features        Features `gorm:"type:text" json:"features"`
	RegisterNumber  string   `gorm:"uniqueIndex;not null" json:"register_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
