package domain

import "time"

// ReportComment is a comment on a report. A comment with a future
// ScheduledAt is "pending": invisible to everyone but its author until
// wall-clock time passes ScheduledAt. Promotion to live is computed at
// query time; the row itself never changes.
type ReportComment struct {
	ID           string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	ReportID     string     `gorm:"column:report_id;size:36;index" json:"reportId"`
	AuthorUserID string     `gorm:"column:author_user_id;size:36;index" json:"authorUserId"`
	Content      string     `gorm:"column:content;size:2000" json:"content"`
	ScheduledAt  *time.Time `gorm:"column:scheduled_at;index" json:"scheduledAt"`
	CreatedAt    time.Time  `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updatedAt"`

	Author *Profile `gorm:"foreignKey:AuthorUserID;references:UserID" json:"-"`
	Report *Report  `gorm:"foreignKey:ReportID" json:"-"`
}

// TableName returns the table name
func (ReportComment) TableName() string {
	return "report_comments"
}

// IsLiveAt reports whether the comment is visible in the live timeline
// at the given instant
func (c *ReportComment) IsLiveAt(now time.Time) bool {
	return c.ScheduledAt == nil || !c.ScheduledAt.After(now)
}

// ToResponse converts to the API shape
func (c *ReportComment) ToResponse() *CommentResponse {
	resp := &CommentResponse{
		ID:           c.ID,
		ReportID:     c.ReportID,
		AuthorUserID: c.AuthorUserID,
		Content:      c.Content,
		ScheduledAt:  c.ScheduledAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.Author != nil {
		resp.Author = AuthorInfo{UserID: c.Author.UserID, Name: c.Author.Name, Role: c.Author.Role}
	}
	return resp
}

// CommentResponse is the comment API shape
type CommentResponse struct {
	ID           string     `json:"id"`
	ReportID     string     `json:"reportId"`
	AuthorUserID string     `json:"authorUserId"`
	Content      string     `json:"content"`
	ScheduledAt  *time.Time `json:"scheduledAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	Author       AuthorInfo `json:"author"`
}

// CreateCommentRequest is the comment creation payload. ScheduledAt is
// an optional RFC3339 timestamp.
type CreateCommentRequest struct {
	Content     string `json:"content"`
	ScheduledAt string `json:"scheduledAt"`
}

// UpdateCommentRequest is the comment edit payload
type UpdateCommentRequest struct {
	Content string `json:"content"`
}
