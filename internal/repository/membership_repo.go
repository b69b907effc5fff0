package repository

import (
	"errors"

	"github.com/danbi-app/danbi-backend/internal/domain"
	"gorm.io/gorm"
)

// MembershipRepository membership data access
type MembershipRepository interface {
	FindByID(id string) (*domain.Membership, error)
	FindByUserGroupPet(userID, groupID, petID string) (*domain.Membership, error)
	// FindApprovedByPet returns all APPROVED memberships for a pet with
	// their groups (at most one under the active-enrollment invariant,
	// but transient duplicates from migrations are tolerated).
	FindApprovedByPet(petID string) ([]*domain.Membership, error)
	FindApprovedByPetAndUser(petID, userID string) (*domain.Membership, error)
	HasApprovedByPet(petID string) (bool, error)
	ListByUser(userID string) ([]*domain.Membership, error)
	ListPendingByGroup(groupID string) ([]*domain.Membership, error)
	PetIDsForGroups(groupIDs []string) ([]string, error)
	Create(m *domain.Membership) error
	UpdateStatus(id, status string, activeKey *uint8) error
	Delete(id string) error
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) FindByID(id string) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.Preload("Group").Preload("Pet").Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) FindByUserGroupPet(userID, groupID, petID string) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.Where("user_id = ? AND group_id = ? AND pet_id = ?", userID, groupID, petID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) FindApprovedByPet(petID string) ([]*domain.Membership, error) {
	var ms []*domain.Membership
	err := r.db.Preload("Group").
		Where("pet_id = ? AND status = ?", petID, domain.MembershipApproved).
		Find(&ms).Error
	return ms, err
}

func (r *membershipRepository) FindApprovedByPetAndUser(petID, userID string) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.Where("pet_id = ? AND user_id = ? AND status = ?",
		petID, userID, domain.MembershipApproved).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) HasApprovedByPet(petID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Membership{}).
		Where("pet_id = ? AND status = ?", petID, domain.MembershipApproved).
		Count(&count).Error
	return count > 0, err
}

func (r *membershipRepository) ListByUser(userID string) ([]*domain.Membership, error) {
	var ms []*domain.Membership
	err := r.db.Preload("Group").Preload("Pet").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&ms).Error
	return ms, err
}

func (r *membershipRepository) ListPendingByGroup(groupID string) ([]*domain.Membership, error) {
	var ms []*domain.Membership
	err := r.db.Preload("Pet").Preload("User").
		Where("group_id = ? AND status = ?", groupID, domain.MembershipPending).
		Order("created_at DESC").
		Find(&ms).Error
	return ms, err
}

func (r *membershipRepository) PetIDsForGroups(groupIDs []string) ([]string, error) {
	var ids []string
	err := r.db.Model(&domain.Membership{}).
		Distinct("pet_id").
		Where("group_id IN ? AND status = ?", groupIDs, domain.MembershipApproved).
		Pluck("pet_id", &ids).Error
	return ids, err
}

func (r *membershipRepository) Create(m *domain.Membership) error {
	return r.db.Create(m).Error
}

// UpdateStatus writes status and active_key together so the unique
// (pet_id, active_key) index stays consistent with the status column.
func (r *membershipRepository) UpdateStatus(id, status string, activeKey *uint8) error {
	return r.db.Model(&domain.Membership{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "active_key": activeKey}).Error
}

func (r *membershipRepository) Delete(id string) error {
	return r.db.Delete(&domain.Membership{}, "id = ?", id).Error
}
