package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
)

// User is the authenticated principal. Credentials and session
// issuance live outside this service; the JWT middleware trusts the
// subject claim as the user ID.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Role      Role      `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
