package service

import (
	"testing"

	"github.com/danbi-app/danbi-backend/internal/common"
	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestMembershipService() (MembershipService, *MockMembershipRepository, *MockGroupRepository, *MockPetRepository) {
	membershipRepo := new(MockMembershipRepository)
	groupRepo := new(MockGroupRepository)
	petRepo := new(MockPetRepository)
	return NewMembershipService(membershipRepo, groupRepo, petRepo), membershipRepo, groupRepo, petRepo
}

func pendingMembership() *domain.Membership {
	return &domain.Membership{
		ID:      "m1",
		UserID:  "guardian-1",
		GroupID: "group-1",
		PetID:   "pet-1",
		Status:  domain.MembershipPending,
		Group:   &domain.Group{ID: "group-1", Name: "해피독 유치원", OwnerUserID: "admin-1"},
	}
}

func TestJoin_GroupNotFound(t *testing.T) {
	svc, _, groupRepo, _ := newTestMembershipService()
	groupRepo.On("FindByID", "nope").Return(nil, nil)

	_, err := svc.Join(guardianUser, &domain.JoinRequest{GroupID: "nope", PetID: "pet-1"})
	assert.ErrorIs(t, err, common.ErrGroupNotFound)
}

func TestJoin_NotPetOwner(t *testing.T) {
	svc, _, groupRepo, petRepo := newTestMembershipService()
	groupRepo.On("FindByID", "group-1").Return(&domain.Group{ID: "group-1"}, nil)
	petRepo.On("FindByIDAndOwner", "pet-1", "guardian-1").Return(nil, nil)

	_, err := svc.Join(guardianUser, &domain.JoinRequest{GroupID: "group-1", PetID: "pet-1"})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestJoin_DuplicatePending(t *testing.T) {
	svc, membershipRepo, groupRepo, petRepo := newTestMembershipService()
	groupRepo.On("FindByID", "group-1").Return(&domain.Group{ID: "group-1"}, nil)
	petRepo.On("FindByIDAndOwner", "pet-1", "guardian-1").Return(&domain.Pet{ID: "pet-1"}, nil)
	membershipRepo.On("FindByUserGroupPet", "guardian-1", "group-1", "pet-1").
		Return(pendingMembership(), nil)

	_, err := svc.Join(guardianUser, &domain.JoinRequest{GroupID: "group-1", PetID: "pet-1"})
	assert.ErrorIs(t, err, common.ErrAlreadyRequested)
}

func TestJoin_RejectedTransitionsBackToPending(t *testing.T) {
	svc, membershipRepo, groupRepo, petRepo := newTestMembershipService()
	rejected := pendingMembership()
	rejected.Status = domain.MembershipRejected

	groupRepo.On("FindByID", "group-1").Return(&domain.Group{ID: "group-1"}, nil)
	petRepo.On("FindByIDAndOwner", "pet-1", "guardian-1").Return(&domain.Pet{ID: "pet-1"}, nil)
	membershipRepo.On("FindByUserGroupPet", "guardian-1", "group-1", "pet-1").Return(rejected, nil)
	membershipRepo.On("UpdateStatus", "m1", domain.MembershipPending, (*uint8)(nil)).Return(nil)
	membershipRepo.On("FindByID", "m1").Return(pendingMembership(), nil)

	got, err := svc.Join(guardianUser, &domain.JoinRequest{GroupID: "group-1", PetID: "pet-1"})
	assert.NoError(t, err)
	assert.Equal(t, domain.MembershipPending, got.Status)
	membershipRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestJoin_CreatesNewRequest(t *testing.T) {
	svc, membershipRepo, groupRepo, petRepo := newTestMembershipService()
	groupRepo.On("FindByID", "group-1").Return(&domain.Group{ID: "group-1"}, nil)
	petRepo.On("FindByIDAndOwner", "pet-1", "guardian-1").Return(&domain.Pet{ID: "pet-1"}, nil)
	membershipRepo.On("FindByUserGroupPet", "guardian-1", "group-1", "pet-1").Return(nil, nil)
	membershipRepo.On("Create", mock.AnythingOfType("*domain.Membership")).Run(func(args mock.Arguments) {
		m := args.Get(0).(*domain.Membership)
		m.ID = "m-new"
		assert.Equal(t, domain.MembershipPending, m.Status)
	}).Return(nil)
	membershipRepo.On("FindByID", "m-new").Return(pendingMembership(), nil)

	_, err := svc.Join(guardianUser, &domain.JoinRequest{GroupID: "group-1", PetID: "pet-1"})
	assert.NoError(t, err)
	membershipRepo.AssertExpectations(t)
}

func TestDecide_RequiresAdmin(t *testing.T) {
	svc, _, _, _ := newTestMembershipService()

	_, err := svc.Decide(guardianUser, "m1", domain.MembershipApproved)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestDecide_InvalidStatus(t *testing.T) {
	svc, _, _, _ := newTestMembershipService()

	_, err := svc.Decide(adminCaller, "m1", "MAYBE")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestDecide_OtherAdminsGroup(t *testing.T) {
	svc, membershipRepo, _, _ := newTestMembershipService()
	m := pendingMembership()
	m.Group.OwnerUserID = "other-admin"
	membershipRepo.On("FindByID", "m1").Return(m, nil)

	_, err := svc.Decide(adminCaller, "m1", domain.MembershipApproved)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestDecide_AlreadyDecided(t *testing.T) {
	svc, membershipRepo, _, _ := newTestMembershipService()
	m := pendingMembership()
	m.Status = domain.MembershipApproved
	membershipRepo.On("FindByID", "m1").Return(m, nil)

	_, err := svc.Decide(adminCaller, "m1", domain.MembershipRejected)
	assert.ErrorIs(t, err, common.ErrAlreadyDecided)
}

func TestDecide_ApproveConflictsWithActiveEnrollment(t *testing.T) {
	svc, membershipRepo, _, _ := newTestMembershipService()
	membershipRepo.On("FindByID", "m1").Return(pendingMembership(), nil)
	membershipRepo.On("HasApprovedByPet", "pet-1").Return(true, nil)

	_, err := svc.Decide(adminCaller, "m1", domain.MembershipApproved)
	assert.ErrorIs(t, err, common.ErrAlreadyLinked)
	membershipRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDecide_ApproveSetsActiveKey(t *testing.T) {
	svc, membershipRepo, _, _ := newTestMembershipService()
	approved := pendingMembership()
	approved.Status = domain.MembershipApproved

	membershipRepo.On("FindByID", "m1").Return(pendingMembership(), nil).Once()
	membershipRepo.On("HasApprovedByPet", "pet-1").Return(false, nil)
	membershipRepo.On("UpdateStatus", "m1", domain.MembershipApproved, mock.MatchedBy(func(k *uint8) bool {
		return k != nil && *k == 1
	})).Return(nil)
	membershipRepo.On("FindByID", "m1").Return(approved, nil)

	got, err := svc.Decide(adminCaller, "m1", domain.MembershipApproved)
	assert.NoError(t, err)
	assert.Equal(t, domain.MembershipApproved, got.Status)
}

func TestDecide_RejectClearsActiveKey(t *testing.T) {
	svc, membershipRepo, _, _ := newTestMembershipService()
	rejected := pendingMembership()
	rejected.Status = domain.MembershipRejected

	membershipRepo.On("FindByID", "m1").Return(pendingMembership(), nil).Once()
	membershipRepo.On("UpdateStatus", "m1", domain.MembershipRejected, (*uint8)(nil)).Return(nil)
	membershipRepo.On("FindByID", "m1").Return(rejected, nil)

	got, err := svc.Decide(adminCaller, "m1", domain.MembershipRejected)
	assert.NoError(t, err)
	assert.Equal(t, domain.MembershipRejected, got.Status)
	membershipRepo.AssertNotCalled(t, "HasApprovedByPet", mock.Anything)
}

func TestMembershipDelete_OnlyOwnerSees(t *testing.T) {
	svc, membershipRepo, _, _ := newTestMembershipService()
	m := pendingMembership()
	m.Status = domain.MembershipRejected
	m.UserID = "someone-else"
	membershipRepo.On("FindByID", "m1").Return(m, nil)

	err := svc.Delete(guardianUser, "m1")
	assert.ErrorIs(t, err, common.ErrMembershipNotFound)
}

func TestMembershipDelete_OnlyRejected(t *testing.T) {
	svc, membershipRepo, _, _ := newTestMembershipService()
	membershipRepo.On("FindByID", "m1").Return(pendingMembership(), nil)

	err := svc.Delete(guardianUser, "m1")
	assert.ErrorIs(t, err, common.ErrNotRejected)
}

func TestMembershipDelete_Rejected(t *testing.T) {
	svc, membershipRepo, _, _ := newTestMembershipService()
	m := pendingMembership()
	m.Status = domain.MembershipRejected
	membershipRepo.On("FindByID", "m1").Return(m, nil)
	membershipRepo.On("Delete", "m1").Return(nil)

	err := svc.Delete(guardianUser, "m1")
	assert.NoError(t, err)
	membershipRepo.AssertExpectations(t)
}

func TestListPending_NotOwnedGroupMasked(t *testing.T) {
	svc, _, groupRepo, _ := newTestMembershipService()
	groupRepo.On("FindByIDAndOwner", "group-9", "admin-1").Return(nil, nil)

	_, err := svc.ListPending(adminCaller, "group-9")
	assert.ErrorIs(t, err, common.ErrGroupNotFound)
}

func TestListPending_OwnedGroup(t *testing.T) {
	svc, membershipRepo, groupRepo, _ := newTestMembershipService()
	groupRepo.On("FindByIDAndOwner", "group-1", "admin-1").Return(&domain.Group{ID: "group-1", OwnerUserID: "admin-1"}, nil)
	membershipRepo.On("ListPendingByGroup", "group-1").Return([]*domain.Membership{pendingMembership()}, nil)

	got, err := svc.ListPending(adminCaller, "group-1")
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}
