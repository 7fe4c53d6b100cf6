package repository

import (
	"github.com/google/uuid"
	"github.com/yboost/yboost/pkg/database/models"
	"gorm.io/gorm"
)

// Award is one skin to append to a collection: the id plus the (name, rarity)
// snapshot recorded at award time.
type Award struct {
	SkinID   int
	SkinName string
	Rarity   string
}

// CollectionRepository handles database operations for OwnedSkin records.
type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// AddMany appends one owned-skin record per award inside a single
// transaction, so a failing insert rolls back the whole batch instead of
// leaving it partially applied.
func (r *CollectionRepository) AddMany(userID uuid.UUID, awards []Award) error {
	if len(awards) == 0 {
		return nil
	}
	records := make([]models.OwnedSkin, 0, len(awards))
	for _, a := range awards {
		records = append(records, models.OwnedSkin{
			UserID:   userID,
			SkinID:   a.SkinID,
			SkinName: a.SkinName,
			Rarity:   a.Rarity,
		})
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Create(&records[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByUser returns every owned-skin record for the user, duplicates
// included, most recently acquired first.
func (r *CollectionRepository) ListByUser(userID uuid.UUID) ([]models.OwnedSkin, error) {
	var skins []models.OwnedSkin
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&skins).Error; err != nil {
		return nil, err
	}
	return skins, nil
}

// Remove deletes every record matching the user and skin id, i.e. removing a
// stacked duplicate removes the whole stack at once. It returns the number of
// rows deleted.
func (r *CollectionRepository) Remove(userID uuid.UUID, skinID int) (int64, error) {
	res := r.db.Where("user_id = ? AND skin_id = ?", userID, skinID).Delete(&models.OwnedSkin{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
