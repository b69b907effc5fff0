package repository

import (
	"errors"

	"github.com/danbi-app/danbi-backend/internal/domain"
	"gorm.io/gorm"
)

// PetRepository pet data access
type PetRepository interface {
	FindByID(id string) (*domain.Pet, error)
	FindByIDAndOwner(id, ownerUserID string) (*domain.Pet, error)
	ListIDsByOwner(ownerUserID string) ([]string, error)
}

type petRepository struct {
	db *gorm.DB
}

// NewPetRepository creates a new PetRepository
func NewPetRepository(db *gorm.DB) PetRepository {
	return &petRepository{db: db}
}

func (r *petRepository) FindByID(id string) (*domain.Pet, error) {
	var pet domain.Pet
	err := r.db.Preload("Owner").Where("id = ?", id).First(&pet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) FindByIDAndOwner(id, ownerUserID string) (*domain.Pet, error) {
	var pet domain.Pet
	err := r.db.Where("id = ? AND owner_user_id = ?", id, ownerUserID).First(&pet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) ListIDsByOwner(ownerUserID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&domain.Pet{}).
		Where("owner_user_id = ?", ownerUserID).
		Pluck("id", &ids).Error
	return ids, err
}
