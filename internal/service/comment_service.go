package service

import (
	"strings"
	"time"

	"github.com/danbi-app/danbi-backend/internal/common"
	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/danbi-app/danbi-backend/internal/push"
	"github.com/danbi-app/danbi-backend/internal/repository"
	"github.com/danbi-app/danbi-backend/internal/ws"
)

// CommentEventPublisher fans a comment change event out to open report
// views (satisfied by ws.Hub)
type CommentEventPublisher interface {
	Publish(ev *ws.Event)
}

// CommentService the report comment timeline: live/pending retrieval,
// immediate and scheduled creation, author-only edit/delete
type CommentService interface {
	List(caller *domain.AuthUser, reportID string, scheduledOnly bool) ([]*domain.CommentResponse, error)
	Create(caller *domain.AuthUser, reportID string, req *domain.CreateCommentRequest) (*domain.CommentResponse, error)
	Update(caller *domain.AuthUser, reportID, commentID string, req *domain.UpdateCommentRequest) (*domain.CommentResponse, error)
	Delete(caller *domain.AuthUser, reportID, commentID string) error
}

type commentService struct {
	commentRepo    repository.CommentRepository
	reportRepo     repository.ReportRepository
	membershipRepo repository.MembershipRepository
	access         AccessResolver
	notifier       push.Notifier
	events         CommentEventPublisher
	now            func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	reportRepo repository.ReportRepository,
	membershipRepo repository.MembershipRepository,
	access AccessResolver,
	notifier push.Notifier,
	events CommentEventPublisher,
) CommentService {
	return &commentService{
		commentRepo:    commentRepo,
		reportRepo:     reportRepo,
		membershipRepo: membershipRepo,
		access:         access,
		notifier:       notifier,
		events:         events,
		now:            time.Now,
	}
}

// List returns the live timeline, or with scheduledOnly the caller's
// own not-yet-due comments. Liveness is computed against the query
// time; nothing is mutated when a scheduled comment becomes due.
func (s *commentService) List(caller *domain.AuthUser, reportID string, scheduledOnly bool) ([]*domain.CommentResponse, error) {
	if _, err := s.authorizeReport(caller, reportID); err != nil {
		return nil, err
	}

	var comments []*domain.ReportComment
	var err error
	if scheduledOnly {
		comments, err = s.commentRepo.ListPending(reportID, caller.UserID, s.now())
	} else {
		comments, err = s.commentRepo.ListLive(reportID, s.now())
	}
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.CommentResponse, len(comments))
	for i, comment := range comments {
		responses[i] = comment.ToResponse()
	}
	return responses, nil
}

// Create stores a comment. Without a future scheduledAt the comment is
// live at once and the other party is push-notified; a future-scheduled
// comment stays invisible to everyone else and never notifies — its
// promotion is a query-time filter change, not an event.
func (s *commentService) Create(caller *domain.AuthUser, reportID string, req *domain.CreateCommentRequest) (*domain.CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.ErrContentRequired
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return nil, common.ErrInvalidScheduledAt
		}
		scheduledAt = &t
	}

	report, err := s.authorizeReport(caller, reportID)
	if err != nil {
		return nil, err
	}

	comment := &domain.ReportComment{
		ReportID:     reportID,
		AuthorUserID: caller.UserID,
		Content:      content,
		ScheduledAt:  scheduledAt,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	if comment.IsLiveAt(s.now()) {
		s.notifyParticipants(caller, report, comment)
	}
	s.publish(ws.EventInsert, reportID, comment.ID)

	return comment.ToResponse(), nil
}

// Update edits a comment's content. Non-authors get NotFound — the
// existence of someone else's comment is never confirmed.
func (s *commentService) Update(caller *domain.AuthUser, reportID, commentID string, req *domain.UpdateCommentRequest) (*domain.CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.ErrContentRequired
	}

	comment, err := s.ownComment(caller, reportID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateContent(comment.ID, content); err != nil {
		return nil, err
	}
	s.publish(ws.EventUpdate, reportID, comment.ID)

	updated, err := s.commentRepo.FindByIDAndReport(commentID, reportID)
	if err != nil {
		return nil, err
	}
	return updated.ToResponse(), nil
}

// Delete removes a comment. Deleting a still-scheduled comment cancels
// it: no one else ever saw it and no notification is ever generated.
func (s *commentService) Delete(caller *domain.AuthUser, reportID, commentID string) error {
	comment, err := s.ownComment(caller, reportID, commentID)
	if err != nil {
		return err
	}
	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return err
	}
	s.publish(ws.EventDelete, reportID, comment.ID)
	return nil
}

// authorizeReport resolves the report and gates access (존재 확인 후 권한 확인)
func (s *commentService) authorizeReport(caller *domain.AuthUser, reportID string) (*domain.Report, error) {
	report, err := s.reportRepo.FindByID(reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, common.ErrReportNotFound
	}
	ok, err := s.access.CanAccessReport(caller, report)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrForbidden
	}
	return report, nil
}

// ownComment fetches the comment and masks both "missing" and "not
// yours" as NotFound
func (s *commentService) ownComment(caller *domain.AuthUser, reportID, commentID string) (*domain.ReportComment, error) {
	comment, err := s.commentRepo.FindByIDAndReport(commentID, reportID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.AuthorUserID != caller.UserID {
		return nil, common.ErrCommentNotFound
	}
	return comment, nil
}

// notifyParticipants pushes to the other side of the guardian↔admin
// conversation: a guardian's comment notifies the admins of groups
// holding the pet's APPROVED membership, an admin's comment notifies
// the guardian.
func (s *commentService) notifyParticipants(caller *domain.AuthUser, report *domain.Report, comment *domain.ReportComment) {
	if s.notifier == nil || report.Pet == nil {
		return
	}

	payload := push.Payload{
		Title: "새 댓글이 등록되었습니다",
		Body:  report.Pet.Name + " - " + caller.Name,
		URL:   "/reports/" + report.ID,
	}

	if caller.UserID == report.Pet.OwnerUserID {
		memberships, err := s.membershipRepo.FindApprovedByPet(report.PetID)
		if err != nil {
			return
		}
		for _, m := range memberships {
			if m.Group != nil && m.Group.OwnerUserID != caller.UserID {
				s.notifier.NotifyAsync(m.Group.OwnerUserID, payload)
			}
		}
		return
	}
	s.notifier.NotifyAsync(report.Pet.OwnerUserID, payload)
}

func (s *commentService) publish(eventType, reportID, commentID string) {
	if s.events == nil {
		return
	}
	s.events.Publish(&ws.Event{Type: eventType, ReportID: reportID, CommentID: commentID})
}
