package repository

import (
	"errors"

	"github.com/danbi-app/danbi-backend/internal/domain"
	"gorm.io/gorm"
)

// GroupRepository group data access
type GroupRepository interface {
	FindByID(id string) (*domain.Group, error)
	FindByIDAndOwner(id, ownerUserID string) (*domain.Group, error)
	ListIDsByOwner(ownerUserID string) ([]string, error)
	// FindByOwnerWithApprovedPet returns a group owned by the given admin
	// that holds an APPROVED membership for the pet, or nil. This is the
	// admin-side access check for a report.
	FindByOwnerWithApprovedPet(ownerUserID, petID string) (*domain.Group, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) FindByID(id string) (*domain.Group, error) {
	var group domain.Group
	err := r.db.Where("id = ?", id).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) FindByIDAndOwner(id, ownerUserID string) (*domain.Group, error) {
	var group domain.Group
	err := r.db.Where("id = ? AND owner_user_id = ?", id, ownerUserID).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) ListIDsByOwner(ownerUserID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&domain.Group{}).
		Where("owner_user_id = ?", ownerUserID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *groupRepository) FindByOwnerWithApprovedPet(ownerUserID, petID string) (*domain.Group, error) {
	var group domain.Group
	err := r.db.
		Joins("JOIN memberships ON memberships.group_id = groups.id").
		Where("groups.owner_user_id = ? AND memberships.pet_id = ? AND memberships.status = ?",
			ownerUserID, petID, domain.MembershipApproved).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}
