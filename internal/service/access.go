package service

import (
	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/danbi-app/danbi-backend/internal/repository"
)

// AccessResolver decides which reports a caller may see. Used before
// every read, comment and read-marking operation on a report.
type AccessResolver interface {
	CanAccessReport(caller *domain.AuthUser, report *domain.Report) (bool, error)
	// ResolveGroup attributes a report to a group for display: the
	// stored group reference when present, otherwise the pet's APPROVED
	// membership whose owning admin authored the report (legacy rows).
	ResolveGroup(report *domain.Report) *domain.Group
}

type accessResolver struct {
	groupRepo repository.GroupRepository
}

// NewAccessResolver creates a new AccessResolver
func NewAccessResolver(groupRepo repository.GroupRepository) AccessResolver {
	return &accessResolver{groupRepo: groupRepo}
}

// CanAccessReport reports whether the caller stands in a relationship
// to the report's pet: guardians must own the pet, admins must own a
// group holding an APPROVED membership for it.
func (a *accessResolver) CanAccessReport(caller *domain.AuthUser, report *domain.Report) (bool, error) {
	if caller.IsGuardian() {
		return report.Pet != nil && report.Pet.OwnerUserID == caller.UserID, nil
	}
	if caller.IsAdmin() {
		group, err := a.groupRepo.FindByOwnerWithApprovedPet(caller.UserID, report.PetID)
		if err != nil {
			return false, err
		}
		return group != nil, nil
	}
	return false, nil
}

func (a *accessResolver) ResolveGroup(report *domain.Report) *domain.Group {
	if report.Group != nil {
		return report.Group
	}
	if report.Pet == nil {
		return nil
	}
	// 작성자(관리자)가 소유한 그룹의 승인 멤버십으로 귀속 (first match)
	for i := range report.Pet.Memberships {
		m := &report.Pet.Memberships[i]
		if m.Status == domain.MembershipApproved && m.Group != nil &&
			m.Group.OwnerUserID == report.AuthorUserID {
			return m.Group
		}
	}
	return nil
}
