package repository

import (
	"github.com/google/uuid"
	"github.com/yboost/yboost/pkg/database/models"
	"gorm.io/gorm"
)

// UserRepository handles database operations for the User model.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByPseudo(pseudo string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "pseudo = ?", pseudo).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// PseudoTaken reports whether a user with the given pseudo already exists.
func (r *UserRepository) PseudoTaken(pseudo string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("pseudo = ?", pseudo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
