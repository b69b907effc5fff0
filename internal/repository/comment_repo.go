package repository

import (
	"errors"
	"time"

	"github.com/danbi-app/danbi-backend/internal/domain"
	"gorm.io/gorm"
)

// CommentRepository report comment data access. The live/pending split
// is a pure time comparison against scheduled_at: no row is ever
// mutated to "promote" a scheduled comment.
type CommentRepository interface {
	FindByIDAndReport(commentID, reportID string) (*domain.ReportComment, error)
	ListLive(reportID string, now time.Time) ([]*domain.ReportComment, error)
	ListPending(reportID, authorUserID string, now time.Time) ([]*domain.ReportComment, error)
	Create(comment *domain.ReportComment) error
	UpdateContent(commentID, content string) error
	Delete(commentID string) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) FindByIDAndReport(commentID, reportID string) (*domain.ReportComment, error) {
	var comment domain.ReportComment
	err := r.db.Preload("Author").
		Where("id = ? AND report_id = ?", commentID, reportID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListLive(reportID string, now time.Time) ([]*domain.ReportComment, error) {
	var comments []*domain.ReportComment
	err := r.db.Preload("Author").
		Where("report_id = ?", reportID).
		Where("scheduled_at IS NULL OR scheduled_at <= ?", now).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// ListPending returns only the caller's own not-yet-due comments; other
// participants must not learn a comment is coming before it is due.
func (r *commentRepository) ListPending(reportID, authorUserID string, now time.Time) ([]*domain.ReportComment, error) {
	var comments []*domain.ReportComment
	err := r.db.Preload("Author").
		Where("report_id = ? AND author_user_id = ?", reportID, authorUserID).
		Where("scheduled_at > ?", now).
		Order("scheduled_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Create(comment *domain.ReportComment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return err
	}
	return r.db.Preload("Author").First(comment, "id = ?", comment.ID).Error
}

func (r *commentRepository) UpdateContent(commentID, content string) error {
	return r.db.Model(&domain.ReportComment{}).
		Where("id = ?", commentID).
		Update("content", content).Error
}

func (r *commentRepository) Delete(commentID string) error {
	return r.db.Delete(&domain.ReportComment{}, "id = ?", commentID).Error
}
