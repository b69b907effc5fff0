package service

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danbi-app/danbi-backend/internal/common"
	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/danbi-app/danbi-backend/internal/push"
	"github.com/danbi-app/danbi-backend/internal/repository"
)

// ReportListOptions narrows the report listing per caller request
type ReportListOptions struct {
	PetID    string
	GroupIDs []string
	MineOnly bool
}

// ReportService report listing, detail, lifecycle and read tracking
type ReportService interface {
	List(caller *domain.AuthUser, opts ReportListOptions) ([]*domain.ReportSummary, error)
	Get(caller *domain.AuthUser, reportID string) (*domain.ReportDetail, error)
	Create(caller *domain.AuthUser, req *domain.CreateReportRequest) (*domain.ReportDetail, error)
	Update(caller *domain.AuthUser, reportID string, req *domain.UpdateReportRequest) (*domain.ReportDetail, error)
	Delete(caller *domain.AuthUser, reportID string) error
	UnreadCount(caller *domain.AuthUser) (int64, error)
	MarkRead(caller *domain.AuthUser, reportID string) error
	Remind(caller *domain.AuthUser, reportID string) (*domain.RemindResponse, error)
}

type reportService struct {
	reportRepo     repository.ReportRepository
	petRepo        repository.PetRepository
	groupRepo      repository.GroupRepository
	membershipRepo repository.MembershipRepository
	access         AccessResolver
	notifier       push.Notifier
	now            func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo repository.ReportRepository,
	petRepo repository.PetRepository,
	groupRepo repository.GroupRepository,
	membershipRepo repository.MembershipRepository,
	access AccessResolver,
	notifier push.Notifier,
) ReportService {
	return &reportService{
		reportRepo:     reportRepo,
		petRepo:        petRepo,
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		access:         access,
		notifier:       notifier,
		now:            time.Now,
	}
}

// List returns reports visible to the caller, newest first. A caller
// with no qualifying pets/groups gets an empty list, not an error.
func (s *reportService) List(caller *domain.AuthUser, opts ReportListOptions) ([]*domain.ReportSummary, error) {
	if caller.IsGuardian() {
		return s.listForGuardian(caller, opts)
	}
	if caller.IsAdmin() {
		return s.listForAdmin(caller, opts)
	}
	return []*domain.ReportSummary{}, nil
}

func (s *reportService) listForGuardian(caller *domain.AuthUser, opts ReportListOptions) ([]*domain.ReportSummary, error) {
	petIDs, err := s.petRepo.ListIDsByOwner(caller.UserID)
	if err != nil {
		return nil, err
	}
	if len(petIDs) == 0 {
		return []*domain.ReportSummary{}, nil
	}
	if opts.PetID != "" {
		if !contains(petIDs, opts.PetID) {
			return []*domain.ReportSummary{}, nil
		}
		petIDs = []string{opts.PetID}
	}

	filter := repository.ReportListFilter{PetIDs: petIDs}
	if opts.MineOnly {
		filter.AuthorUserID = caller.UserID
	}
	reports, err := s.reportRepo.List(filter)
	if err != nil {
		return nil, err
	}
	counts, err := s.commentCounts(reports)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.ReportSummary, 0, len(reports))
	for _, r := range reports {
		sum := s.baseSummary(r, counts)
		isRead := false
		var readAt *time.Time
		for i := range r.Reads {
			if r.Reads[i].UserID == caller.UserID {
				isRead = true
				at := r.Reads[i].ReadAt
				readAt = &at
				break
			}
		}
		sum.IsRead = &isRead
		sum.ReadAt = readAt
		summaries = append(summaries, sum)
	}

	// 그룹 필터는 귀속 계산 이후에 적용
	if len(opts.GroupIDs) > 0 {
		filtered := summaries[:0]
		for _, sum := range summaries {
			if sum.GroupID != nil && contains(opts.GroupIDs, *sum.GroupID) {
				filtered = append(filtered, sum)
			}
		}
		summaries = filtered
	}
	return summaries, nil
}

func (s *reportService) listForAdmin(caller *domain.AuthUser, opts ReportListOptions) ([]*domain.ReportSummary, error) {
	ownedGroupIDs, err := s.groupRepo.ListIDsByOwner(caller.UserID)
	if err != nil {
		return nil, err
	}
	if len(ownedGroupIDs) == 0 {
		return []*domain.ReportSummary{}, nil
	}

	// A requested group filter only ever narrows within owned groups
	groupIDs := ownedGroupIDs
	if len(opts.GroupIDs) > 0 {
		groupIDs = intersect(opts.GroupIDs, ownedGroupIDs)
		if len(groupIDs) == 0 {
			return []*domain.ReportSummary{}, nil
		}
	}

	petIDs, err := s.membershipRepo.PetIDsForGroups(groupIDs)
	if err != nil {
		return nil, err
	}
	if len(petIDs) == 0 {
		return []*domain.ReportSummary{}, nil
	}
	if opts.PetID != "" {
		if !contains(petIDs, opts.PetID) {
			return []*domain.ReportSummary{}, nil
		}
		petIDs = []string{opts.PetID}
	}

	filter := repository.ReportListFilter{PetIDs: petIDs}
	if opts.MineOnly {
		filter.AuthorUserID = caller.UserID
	}
	reports, err := s.reportRepo.List(filter)
	if err != nil {
		return nil, err
	}
	counts, err := s.commentCounts(reports)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.ReportSummary, 0, len(reports))
	for _, r := range reports {
		sum := s.baseSummary(r, counts)
		guardianUserID := ""
		if r.Pet != nil {
			guardianUserID = r.Pet.OwnerUserID
			if r.Pet.Owner != nil {
				name := r.Pet.Owner.Name
				sum.GuardianName = &name
			}
		}
		readByGuardian := false
		readByAdmin := false
		for i := range r.Reads {
			if r.Reads[i].UserID == guardianUserID {
				readByGuardian = true
			}
			if r.Reads[i].UserID == caller.UserID {
				readByAdmin = true
			}
		}
		sum.IsReadByGuardian = &readByGuardian
		sum.IsReadByAdmin = &readByAdmin
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// baseSummary fills the role-independent listing fields
func (s *reportService) baseSummary(r *domain.Report, counts map[string]int64) *domain.ReportSummary {
	sum := &domain.ReportSummary{
		ID:           r.ID,
		PetID:        r.PetID,
		AuthorUserID: r.AuthorUserID,
		Content:      r.Content,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		CommentCount: counts[r.ID],
	}
	if r.Pet != nil {
		sum.Pet = domain.PetInfo{ID: r.Pet.ID, Name: r.Pet.Name, PhotoURL: r.Pet.PhotoURL}
		sum.IsGuardianPost = r.AuthorUserID == r.Pet.OwnerUserID
	}
	if len(r.Media) > 0 {
		url := r.Media[0].URL
		sum.ThumbnailURL = &url
	}
	if group := s.access.ResolveGroup(r); group != nil {
		sum.GroupName = &group.Name
		sum.GroupID = &group.ID
	}
	return sum
}

func (s *reportService) commentCounts(reports []*domain.Report) (map[string]int64, error) {
	ids := make([]string, len(reports))
	for i, r := range reports {
		ids[i] = r.ID
	}
	return s.reportRepo.CountCommentsByReportIDs(ids)
}

// Get returns the full report detail with caller-specific read state.
// Existence is checked before authorization (unknown id → NotFound,
// known but unrelated → Forbidden).
func (s *reportService) Get(caller *domain.AuthUser, reportID string) (*domain.ReportDetail, error) {
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
	return s.buildDetail(caller, report), nil
}

func (s *reportService) buildDetail(caller *domain.AuthUser, report *domain.Report) *domain.ReportDetail {
	detail := &domain.ReportDetail{
		ID:           report.ID,
		PetID:        report.PetID,
		AuthorUserID: report.AuthorUserID,
		Content:      report.Content,
		CreatedAt:    report.CreatedAt,
		UpdatedAt:    report.UpdatedAt,
		Media:        report.Media,
		DailyRecord:  report.DailyRecord,
	}
	if detail.Media == nil {
		detail.Media = []domain.ReportMedia{}
	}
	if report.Pet != nil {
		detail.Pet = domain.PetInfo{ID: report.Pet.ID, Name: report.Pet.Name, PhotoURL: report.Pet.PhotoURL}
		detail.IsGuardianPost = report.AuthorUserID == report.Pet.OwnerUserID
	}
	if report.Author != nil {
		detail.AuthorName = report.Author.Name
	}
	for i := range report.Reads {
		if report.Reads[i].UserID == caller.UserID {
			detail.IsRead = true
			at := report.Reads[i].ReadAt
			detail.ReadAt = &at
			break
		}
	}
	if group := s.access.ResolveGroup(report); group != nil {
		detail.GroupName = &group.Name
		detail.GroupID = &group.ID
	}
	return detail
}

// Create validates and stores a new report. Admin authors are marked
// read immediately and the pet's guardian is push-notified; guardian
// posts carry no daily record and no group attribution.
func (s *reportService) Create(caller *domain.AuthUser, req *domain.CreateReportRequest) (*domain.ReportDetail, error) {
	petID := strings.TrimSpace(req.PetID)
	if petID == "" {
		return nil, common.ErrPetRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, common.ErrContentRequired
	}
	if utf8.RuneCountInString(req.Content) > domain.MaxReportContentLength {
		return nil, common.ErrContentTooLong
	}
	urls := filterURLs(req.MediaURLs)
	if len(urls) > 0 && (len(urls) < domain.MinReportMedia || len(urls) > domain.MaxReportMedia) {
		return nil, common.ErrMediaCountInvalid
	}

	// 작성 권한: 승인된 멤버십 경로가 있어야 함
	var groupID *string
	if caller.IsAdmin() {
		group, err := s.groupRepo.FindByOwnerWithApprovedPet(caller.UserID, petID)
		if err != nil {
			return nil, err
		}
		if group == nil {
			return nil, common.ErrForbidden
		}
		groupID = &group.ID
	} else if caller.IsGuardian() {
		membership, err := s.membershipRepo.FindApprovedByPetAndUser(petID, caller.UserID)
		if err != nil {
			return nil, err
		}
		if membership == nil {
			return nil, common.ErrForbidden
		}
	} else {
		return nil, common.ErrForbidden
	}

	pet, err := s.petRepo.FindByID(petID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, common.ErrPetNotFound
	}

	report := &domain.Report{
		PetID:        petID,
		AuthorUserID: caller.UserID,
		GroupID:      groupID,
		Content:      strings.TrimSpace(req.Content),
	}
	for _, url := range urls {
		report.Media = append(report.Media, domain.ReportMedia{URL: url, Type: "image"})
	}
	if caller.IsAdmin() {
		if dr := domain.SanitizeDailyRecord(req.DailyRecord); dr != nil {
			report.DailyRecord = dr
		}
		report.Reads = []domain.ReportRead{{UserID: caller.UserID, ReadAt: s.now()}}
	}

	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}

	if s.notifier != nil && pet.OwnerUserID != caller.UserID {
		s.notifier.NotifyAsync(pet.OwnerUserID, push.Payload{
			Title: "새 알림장이 등록되었습니다",
			Body:  pet.Name + " - " + caller.Name,
			URL:   "/reports/" + report.ID,
		})
	}

	created, err := s.reportRepo.FindByID(report.ID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(caller, created), nil
}

// Update edits an admin-authored report. Media is replaced wholesale;
// the daily record distinguishes absent (keep), null (delete) and
// object (upsert).
func (s *reportService) Update(caller *domain.AuthUser, reportID string, req *domain.UpdateReportRequest) (*domain.ReportDetail, error) {
	report, err := s.authorizeAdminMutation(caller, reportID)
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		if utf8.RuneCountInString(*req.Content) > domain.MaxReportContentLength {
			return nil, common.ErrContentTooLong
		}
		if err := s.reportRepo.UpdateContent(report.ID, strings.TrimSpace(*req.Content)); err != nil {
			return nil, err
		}
	}

	if req.MediaURLs != nil {
		urls := filterURLs(*req.MediaURLs)
		if len(urls) > 0 && (len(urls) < domain.MinReportMedia || len(urls) > domain.MaxReportMedia) {
			return nil, common.ErrMediaCountInvalid
		}
		media := make([]domain.ReportMedia, 0, len(urls))
		for _, url := range urls {
			media = append(media, domain.ReportMedia{URL: url, Type: "image"})
		}
		if err := s.reportRepo.ReplaceMedia(report.ID, media); err != nil {
			return nil, err
		}
	}

	if len(req.DailyRecord) > 0 {
		var input *domain.DailyRecordInput
		if err := json.Unmarshal(req.DailyRecord, &input); err != nil {
			return nil, common.ErrInvalidInput
		}
		if dr := domain.SanitizeDailyRecord(input); dr != nil {
			dr.ReportID = report.ID
			if err := s.reportRepo.UpsertDailyRecord(dr); err != nil {
				return nil, err
			}
		} else {
			if err := s.reportRepo.DeleteDailyRecord(report.ID); err != nil {
				return nil, err
			}
		}
	}

	updated, err := s.reportRepo.FindByID(report.ID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(caller, updated), nil
}

// Delete removes an admin-authored report and its dependents
func (s *reportService) Delete(caller *domain.AuthUser, reportID string) error {
	report, err := s.authorizeAdminMutation(caller, reportID)
	if err != nil {
		return err
	}
	return s.reportRepo.Delete(report.ID)
}

// authorizeAdminMutation gates edit/delete: report must exist, caller
// must be a related admin, and guardian-authored reports are locked.
func (s *reportService) authorizeAdminMutation(caller *domain.AuthUser, reportID string) (*domain.Report, error) {
	if !caller.IsAdmin() {
		return nil, common.ErrForbidden
	}
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
	if report.Pet != nil && report.AuthorUserID == report.Pet.OwnerUserID {
		return nil, common.ErrGuardianPostLocked
	}
	return report, nil
}

// UnreadCount counts visible reports the caller neither wrote nor read
func (s *reportService) UnreadCount(caller *domain.AuthUser) (int64, error) {
	var petIDs []string
	var err error

	if caller.IsGuardian() {
		petIDs, err = s.petRepo.ListIDsByOwner(caller.UserID)
	} else if caller.IsAdmin() {
		var groupIDs []string
		groupIDs, err = s.groupRepo.ListIDsByOwner(caller.UserID)
		if err == nil && len(groupIDs) > 0 {
			petIDs, err = s.membershipRepo.PetIDsForGroups(groupIDs)
		}
	} else {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return s.reportRepo.CountUnread(petIDs, caller.UserID)
}

// MarkRead records that the caller viewed the report (idempotent upsert)
func (s *reportService) MarkRead(caller *domain.AuthUser, reportID string) error {
	report, err := s.reportRepo.FindByID(reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return common.ErrReportNotFound
	}
	ok, err := s.access.CanAccessReport(caller, report)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrForbidden
	}
	return s.reportRepo.MarkRead(reportID, caller.UserID, s.now())
}

// Remind push-notifies the guardian of an unread report. Already-read
// reports short-circuit without sending.
func (s *reportService) Remind(caller *domain.AuthUser, reportID string) (*domain.RemindResponse, error) {
	if !caller.IsAdmin() {
		return nil, common.ErrForbidden
	}
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

	guardianUserID := ""
	petName := ""
	if report.Pet != nil {
		guardianUserID = report.Pet.OwnerUserID
		petName = report.Pet.Name
	}
	for i := range report.Reads {
		if report.Reads[i].UserID == guardianUserID {
			return &domain.RemindResponse{Success: true, Message: "guardian has already read this report"}, nil
		}
	}

	if s.notifier != nil && guardianUserID != "" {
		s.notifier.NotifyAsync(guardianUserID, push.Payload{
			Title: "읽지 않은 알림장이 있습니다",
			Body:  petName,
			URL:   "/reports/" + report.ID,
		})
	}
	return &domain.RemindResponse{Success: true, Message: "reminder sent"}, nil
}

func filterURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			out = append(out, u)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func intersect(a, b []string) []string {
	out := make([]string, 0, len(a))
	for _, v := range a {
		if contains(b, v) {
			out = append(out, v)
		}
	}
	return out
}
