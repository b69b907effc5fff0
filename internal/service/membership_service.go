package service

import (
	"strings"

	"github.com/danbi-app/danbi-backend/internal/common"
	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/danbi-app/danbi-backend/internal/repository"
)

// MembershipService the pet↔group enrollment state machine:
// PENDING → APPROVED|REJECTED, REJECTED → PENDING (re-request) or
// deleted by the requesting guardian.
type MembershipService interface {
	ListMine(caller *domain.AuthUser) ([]*domain.Membership, error)
	ListPending(caller *domain.AuthUser, groupID string) ([]*domain.Membership, error)
	Join(caller *domain.AuthUser, req *domain.JoinRequest) (*domain.Membership, error)
	Decide(caller *domain.AuthUser, membershipID, status string) (*domain.Membership, error)
	Delete(caller *domain.AuthUser, membershipID string) error
}

type membershipService struct {
	membershipRepo repository.MembershipRepository
	groupRepo      repository.GroupRepository
	petRepo        repository.PetRepository
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	membershipRepo repository.MembershipRepository,
	groupRepo repository.GroupRepository,
	petRepo repository.PetRepository,
) MembershipService {
	return &membershipService{
		membershipRepo: membershipRepo,
		groupRepo:      groupRepo,
		petRepo:        petRepo,
	}
}

// ListMine returns the caller's membership requests, newest first
func (s *membershipService) ListMine(caller *domain.AuthUser) ([]*domain.Membership, error) {
	return s.membershipRepo.ListByUser(caller.UserID)
}

// ListPending returns a group's waiting requests for its owning admin.
// Non-owned groups are reported as not found.
func (s *membershipService) ListPending(caller *domain.AuthUser, groupID string) ([]*domain.Membership, error) {
	if !caller.IsAdmin() {
		return nil, common.ErrForbidden
	}
	group, err := s.groupRepo.FindByIDAndOwner(groupID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, common.ErrGroupNotFound
	}
	return s.membershipRepo.ListPendingByGroup(groupID)
}

// Join files (or re-files) an enrollment request for the guardian's own
// pet. A REJECTED request transitions back to PENDING instead of
// duplicating the row.
func (s *membershipService) Join(caller *domain.AuthUser, req *domain.JoinRequest) (*domain.Membership, error) {
	groupID := strings.TrimSpace(req.GroupID)
	petID := strings.TrimSpace(req.PetID)
	if groupID == "" || petID == "" {
		return nil, common.ErrInvalidInput
	}

	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, common.ErrGroupNotFound
	}

	pet, err := s.petRepo.FindByIDAndOwner(petID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, common.ErrForbidden
	}

	existing, err := s.membershipRepo.FindByUserGroupPet(caller.UserID, groupID, petID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case domain.MembershipPending:
			return nil, common.ErrAlreadyRequested
		case domain.MembershipApproved:
			return nil, common.ErrAlreadyLinked
		}
		// REJECTED → 재요청 허용
		if err := s.membershipRepo.UpdateStatus(existing.ID, domain.MembershipPending, nil); err != nil {
			return nil, err
		}
		return s.membershipRepo.FindByID(existing.ID)
	}

	membership := &domain.Membership{
		UserID:  caller.UserID,
		GroupID: groupID,
		PetID:   petID,
		Status:  domain.MembershipPending,
	}
	if err := s.membershipRepo.Create(membership); err != nil {
		return nil, err
	}
	return s.membershipRepo.FindByID(membership.ID)
}

// Decide approves or rejects a PENDING request. Approval enforces the
// one-active-enrollment-per-pet invariant: the application check gives
// a friendly Conflict, the unique (pet_id, active_key) index backstops
// the race two concurrent approvals would otherwise win together.
func (s *membershipService) Decide(caller *domain.AuthUser, membershipID, status string) (*domain.Membership, error) {
	if !caller.IsAdmin() {
		return nil, common.ErrForbidden
	}
	if status != domain.MembershipApproved && status != domain.MembershipRejected {
		return nil, common.ErrInvalidInput
	}

	membership, err := s.membershipRepo.FindByID(membershipID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, common.ErrMembershipNotFound
	}
	if membership.Group == nil || membership.Group.OwnerUserID != caller.UserID {
		return nil, common.ErrForbidden
	}
	if membership.Status != domain.MembershipPending {
		return nil, common.ErrAlreadyDecided
	}

	var activeKey *uint8
	if status == domain.MembershipApproved {
		hasApproved, err := s.membershipRepo.HasApprovedByPet(membership.PetID)
		if err != nil {
			return nil, err
		}
		if hasApproved {
			return nil, common.ErrAlreadyLinked
		}
		one := uint8(1)
		activeKey = &one
	}

	if err := s.membershipRepo.UpdateStatus(membershipID, status, activeKey); err != nil {
		return nil, err
	}
	return s.membershipRepo.FindByID(membershipID)
}

// Delete removes a REJECTED request; only its requesting guardian may
// do so, and only while it stays REJECTED.
func (s *membershipService) Delete(caller *domain.AuthUser, membershipID string) error {
	membership, err := s.membershipRepo.FindByID(membershipID)
	if err != nil {
		return err
	}
	if membership == nil || membership.UserID != caller.UserID {
		return common.ErrMembershipNotFound
	}
	if membership.Status != domain.MembershipRejected {
		return common.ErrNotRejected
	}
	return s.membershipRepo.Delete(membershipID)
}
