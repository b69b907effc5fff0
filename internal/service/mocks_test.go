package service

import (
	"sync"
	"time"

	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/danbi-app/danbi-backend/internal/push"
	"github.com/danbi-app/danbi-backend/internal/repository"
	"github.com/danbi-app/danbi-backend/internal/ws"
	"github.com/stretchr/testify/mock"
)

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindByID(id string) (*domain.Report, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) List(filter repository.ReportListFilter) ([]*domain.Report, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Report), args.Error(1)
}

func (m *MockReportRepository) CountCommentsByReportIDs(reportIDs []string) (map[string]int64, error) {
	args := m.Called(reportIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockReportRepository) CountUnread(petIDs []string, userID string) (int64, error) {
	args := m.Called(petIDs, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) Create(report *domain.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockReportRepository) UpdateContent(reportID, content string) error {
	args := m.Called(reportID, content)
	return args.Error(0)
}

func (m *MockReportRepository) ReplaceMedia(reportID string, media []domain.ReportMedia) error {
	args := m.Called(reportID, media)
	return args.Error(0)
}

func (m *MockReportRepository) UpsertDailyRecord(dr *domain.ReportDailyRecord) error {
	args := m.Called(dr)
	return args.Error(0)
}

func (m *MockReportRepository) DeleteDailyRecord(reportID string) error {
	args := m.Called(reportID)
	return args.Error(0)
}

func (m *MockReportRepository) Delete(reportID string) error {
	args := m.Called(reportID)
	return args.Error(0)
}

func (m *MockReportRepository) MarkRead(reportID, userID string, at time.Time) error {
	args := m.Called(reportID, userID, at)
	return args.Error(0)
}

func (m *MockReportRepository) CountReads(reportID, userID string) (int64, error) {
	args := m.Called(reportID, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPetRepository is a mock implementation of PetRepository
type MockPetRepository struct {
	mock.Mock
}

func (m *MockPetRepository) FindByID(id string) (*domain.Pet, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pet), args.Error(1)
}

func (m *MockPetRepository) FindByIDAndOwner(id, ownerUserID string) (*domain.Pet, error) {
	args := m.Called(id, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pet), args.Error(1)
}

func (m *MockPetRepository) ListIDsByOwner(ownerUserID string) ([]string, error) {
	args := m.Called(ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockGroupRepository is a mock implementation of GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindByID(id string) (*domain.Group, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) FindByIDAndOwner(id, ownerUserID string) (*domain.Group, error) {
	args := m.Called(id, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListIDsByOwner(ownerUserID string) ([]string, error) {
	args := m.Called(ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGroupRepository) FindByOwnerWithApprovedPet(ownerUserID, petID string) (*domain.Group, error) {
	args := m.Called(ownerUserID, petID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

// MockMembershipRepository is a mock implementation of MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) FindByID(id string) (*domain.Membership, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByUserGroupPet(userID, groupID, petID string) (*domain.Membership, error) {
	args := m.Called(userID, groupID, petID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindApprovedByPet(petID string) ([]*domain.Membership, error) {
	args := m.Called(petID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindApprovedByPetAndUser(petID, userID string) (*domain.Membership, error) {
	args := m.Called(petID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) HasApprovedByPet(petID string) (bool, error) {
	args := m.Called(petID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMembershipRepository) ListByUser(userID string) ([]*domain.Membership, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ListPendingByGroup(groupID string) ([]*domain.Membership, error) {
	args := m.Called(groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) PetIDsForGroups(groupIDs []string) ([]string, error) {
	args := m.Called(groupIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMembershipRepository) Create(membership *domain.Membership) error {
	args := m.Called(membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) UpdateStatus(id, status string, activeKey *uint8) error {
	args := m.Called(id, status, activeKey)
	return args.Error(0)
}

func (m *MockMembershipRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) FindByIDAndReport(commentID, reportID string) (*domain.ReportComment, error) {
	args := m.Called(commentID, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportComment), args.Error(1)
}

func (m *MockCommentRepository) ListLive(reportID string, now time.Time) ([]*domain.ReportComment, error) {
	args := m.Called(reportID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReportComment), args.Error(1)
}

func (m *MockCommentRepository) ListPending(reportID, authorUserID string, now time.Time) ([]*domain.ReportComment, error) {
	args := m.Called(reportID, authorUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReportComment), args.Error(1)
}

func (m *MockCommentRepository) Create(comment *domain.ReportComment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) UpdateContent(commentID, content string) error {
	args := m.Called(commentID, content)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(commentID string) error {
	args := m.Called(commentID)
	return args.Error(0)
}

// MockAccessResolver is a mock implementation of AccessResolver
type MockAccessResolver struct {
	mock.Mock
}

func (m *MockAccessResolver) CanAccessReport(caller *domain.AuthUser, report *domain.Report) (bool, error) {
	args := m.Called(caller, report)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessResolver) ResolveGroup(report *domain.Report) *domain.Group {
	args := m.Called(report)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Group)
}

// recordingNotifier records push deliveries synchronously
type recordingNotifier struct {
	mu       sync.Mutex
	userIDs  []string
	payloads []push.Payload
}

func (n *recordingNotifier) NotifyAsync(userID string, payload push.Payload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.userIDs = append(n.userIDs, userID)
	n.payloads = append(n.payloads, payload)
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.userIDs...)
}

// recordingPublisher records comment events
type recordingPublisher struct {
	mu     sync.Mutex
	events []*ws.Event
}

func (p *recordingPublisher) Publish(ev *ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) published() []*ws.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*ws.Event{}, p.events...)
}
