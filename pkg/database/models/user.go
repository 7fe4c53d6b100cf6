package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The collection core only ever uses the ID as
// an opaque owning key; pseudo and password live here for the auth routes.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()"`
	Pseudo       string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"default:now()"`

	// Relationships
	Skins []OwnedSkin `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
