package repository

import (
	"errors"
	"time"

	"github.com/danbi-app/danbi-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportListFilter narrows a report listing
type ReportListFilter struct {
	PetIDs       []string
	AuthorUserID string // mineOnly
}

// ReportRepository report data access
type ReportRepository interface {
	FindByID(id string) (*domain.Report, error)
	List(filter ReportListFilter) ([]*domain.Report, error)
	CountCommentsByReportIDs(reportIDs []string) (map[string]int64, error)
	CountUnread(petIDs []string, userID string) (int64, error)
	Create(report *domain.Report) error
	UpdateContent(reportID, content string) error
	ReplaceMedia(reportID string, media []domain.ReportMedia) error
	UpsertDailyRecord(dr *domain.ReportDailyRecord) error
	DeleteDailyRecord(reportID string) error
	Delete(reportID string) error
	MarkRead(reportID, userID string, at time.Time) error
	CountReads(reportID, userID string) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) FindByID(id string) (*domain.Report, error) {
	var report domain.Report
	err := r.db.
		Preload("Pet").
		Preload("Pet.Owner").
		Preload("Author").
		Preload("Group").
		Preload("Media").
		Preload("DailyRecord").
		Preload("Reads").
		Where("id = ?", id).
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(filter ReportListFilter) ([]*domain.Report, error) {
	if len(filter.PetIDs) == 0 {
		return nil, nil
	}

	query := r.db.
		Preload("Pet").
		Preload("Pet.Owner").
		Preload("Pet.Memberships", "status = ?", domain.MembershipApproved).
		Preload("Pet.Memberships.Group").
		Preload("Author").
		Preload("Group").
		Preload("Media").
		Preload("Reads").
		Where("pet_id IN ?", filter.PetIDs)

	if filter.AuthorUserID != "" {
		query = query.Where("author_user_id = ?", filter.AuthorUserID)
	}

	var reports []*domain.Report
	err := query.Order("created_at DESC").Find(&reports).Error
	return reports, err
}

func (r *reportRepository) CountCommentsByReportIDs(reportIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(reportIDs))
	if len(reportIDs) == 0 {
		return counts, nil
	}

	type row struct {
		ReportID string
		Count    int64
	}
	var rows []row
	err := r.db.Model(&domain.ReportComment{}).
		Select("report_id, COUNT(*) AS count").
		Where("report_id IN ?", reportIDs).
		Group("report_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		counts[rw.ReportID] = rw.Count
	}
	return counts, nil
}

// CountUnread counts reports visible through the given pets that the
// user neither authored nor read.
func (r *reportRepository) CountUnread(petIDs []string, userID string) (int64, error) {
	if len(petIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&domain.Report{}).
		Where("pet_id IN ?", petIDs).
		Where("author_user_id <> ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM report_reads WHERE report_reads.report_id = reports.id AND report_reads.user_id = ?)", userID).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) Create(report *domain.Report) error {
	return r.db.Create(report).Error
}

func (r *reportRepository) UpdateContent(reportID, content string) error {
	return r.db.Model(&domain.Report{}).
		Where("id = ?", reportID).
		Update("content", content).Error
}

// ReplaceMedia deletes all media rows and recreates the submitted set
// (알림장 수정은 사진 전체 교체)
func (r *reportRepository) ReplaceMedia(reportID string, media []domain.ReportMedia) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", reportID).Delete(&domain.ReportMedia{}).Error; err != nil {
			return err
		}
		if len(media) == 0 {
			return nil
		}
		for i := range media {
			media[i].ReportID = reportID
		}
		return tx.Create(&media).Error
	})
}

func (r *reportRepository) UpsertDailyRecord(dr *domain.ReportDailyRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "report_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"mood", "health", "temperature_check", "meal_status", "sleep_time", "bowel_status",
		}),
	}).Create(dr).Error
}

func (r *reportRepository) DeleteDailyRecord(reportID string) error {
	return r.db.Where("report_id = ?", reportID).Delete(&domain.ReportDailyRecord{}).Error
}

func (r *reportRepository) Delete(reportID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", reportID).Delete(&domain.ReportMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", reportID).Delete(&domain.ReportDailyRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", reportID).Delete(&domain.ReportRead{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", reportID).Delete(&domain.ReportComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Report{}, "id = ?", reportID).Error
	})
}

// MarkRead is an idempotent upsert keyed (report_id, user_id); only the
// timestamp moves on repeat calls.
func (r *reportRepository) MarkRead(reportID, userID string, at time.Time) error {
	read := &domain.ReportRead{ReportID: reportID, UserID: userID, ReadAt: at}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "report_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"read_at"}),
	}).Create(read).Error
}

func (r *reportRepository) CountReads(reportID, userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ReportRead{}).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Count(&count).Error
	return count, err
}
