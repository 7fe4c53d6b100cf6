package models

import (
	"time"

	"github.com/google/uuid"
)

// OwnedSkin is one persisted copy of a skin in a user's collection. There is
// deliberately no uniqueness constraint on (user_id, skin_id): the collection
// is a multiset, and duplicate pulls stack.
//
// SkinName and Rarity are snapshots taken at award time. They stay
// authoritative for display even if the catalog's data for the skin changes
// later.
type OwnedSkin struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	SkinID    int       `gorm:"index;not null"`
	SkinName  string    `gorm:"not null"`
	Rarity    string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"default:now();index"`
}
