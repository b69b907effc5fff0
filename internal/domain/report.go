package domain

import (
	"encoding/json"
	"time"
)

// Report content/media bounds
const (
	MaxReportContentLength = 5000
	MinReportMedia         = 1
	MaxReportMedia         = 10
)

// Report represents one daily-care entry (알림장) for a pet.
// GroupID is stored at creation for admin-authored reports; guardian
// posts keep it NULL and resolve no group attribution.
type Report struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	PetID        string    `gorm:"column:pet_id;size:36;index" json:"petId"`
	AuthorUserID string    `gorm:"column:author_user_id;size:36;index" json:"authorUserId"`
	GroupID      *string   `gorm:"column:group_id;size:36;index" json:"-"`
	Content      string    `gorm:"column:content;type:text" json:"content"`
	CreatedAt    time.Time `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`

	Pet         *Pet               `gorm:"foreignKey:PetID" json:"-"`
	Author      *Profile           `gorm:"foreignKey:AuthorUserID;references:UserID" json:"-"`
	Group       *Group             `gorm:"foreignKey:GroupID" json:"-"`
	Media       []ReportMedia      `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"media,omitempty"`
	DailyRecord *ReportDailyRecord `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"dailyRecord,omitempty"`
	Reads       []ReportRead       `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name
func (Report) TableName() string {
	return "reports"
}

// ReportMedia is an attached photo, replaced wholesale on edit
type ReportMedia struct {
	ID       string `gorm:"column:id;primaryKey;size:36" json:"id"`
	ReportID string `gorm:"column:report_id;size:36;index" json:"reportId"`
	URL      string `gorm:"column:url;size:500" json:"url"`
	Type     string `gorm:"column:type;size:20" json:"type"`
}

// TableName returns the table name
func (ReportMedia) TableName() string {
	return "report_media"
}

// ReportDailyRecord holds the structured daily-record fields, one per report
type ReportDailyRecord struct {
	ReportID         string `gorm:"column:report_id;primaryKey;size:36" json:"-"`
	Mood             string `gorm:"column:mood;size:20" json:"mood,omitempty"`
	Health           string `gorm:"column:health;size:20" json:"health,omitempty"`
	TemperatureCheck string `gorm:"column:temperature_check;size:20" json:"temperatureCheck,omitempty"`
	MealStatus       string `gorm:"column:meal_status;size:20" json:"mealStatus,omitempty"`
	SleepTime        string `gorm:"column:sleep_time;size:20" json:"sleepTime,omitempty"`
	BowelStatus      string `gorm:"column:bowel_status;size:20" json:"bowelStatus,omitempty"`
}

// TableName returns the table name
func (ReportDailyRecord) TableName() string {
	return "report_daily_records"
}

// ReportRead marks that a user has viewed a report. One row per
// (report, user); readAt is refreshed on re-read but existence alone
// drives unread status.
type ReportRead struct {
	ReportID string    `gorm:"column:report_id;primaryKey;size:36" json:"reportId"`
	UserID   string    `gorm:"column:user_id;primaryKey;size:36" json:"userId"`
	ReadAt   time.Time `gorm:"column:read_at" json:"readAt"`
}

// TableName returns the table name
func (ReportRead) TableName() string {
	return "report_reads"
}

// DailyRecordInput is the submitted daily-record payload before sanitizing
type DailyRecordInput struct {
	Mood             string `json:"mood"`
	Health           string `json:"health"`
	TemperatureCheck string `json:"temperatureCheck"`
	MealStatus       string `json:"mealStatus"`
	SleepTime        string `json:"sleepTime"`
	BowelStatus      string `json:"bowelStatus"`
}

// Allowed daily-record values per field
var (
	validMood        = []string{"GOOD", "NORMAL", "BAD"}
	validHealth      = []string{"GOOD", "NORMAL", "BAD"}
	validTemperature = []string{"NORMAL", "LOW_FEVER", "HIGH_FEVER"}
	validMealStatus  = []string{"NORMAL_AMOUNT", "A_LOT", "A_LITTLE", "NONE"}
	validSleepTime   = []string{"NONE", "UNDER_1H", "1H_1H30", "1H30_2H", "OVER_2H"}
	validBowelStatus = []string{"NORMAL", "HARD", "LOOSE", "DIARRHEA", "NONE"}
)

func pickValid(v string, allowed []string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return ""
}

// SanitizeDailyRecord keeps only fields holding an allowed value and
// returns nil when nothing valid remains (invalid values are dropped
// silently, matching the submission behavior of the app).
func SanitizeDailyRecord(in *DailyRecordInput) *ReportDailyRecord {
	if in == nil {
		return nil
	}
	dr := &ReportDailyRecord{
		Mood:             pickValid(in.Mood, validMood),
		Health:           pickValid(in.Health, validHealth),
		TemperatureCheck: pickValid(in.TemperatureCheck, validTemperature),
		MealStatus:       pickValid(in.MealStatus, validMealStatus),
		SleepTime:        pickValid(in.SleepTime, validSleepTime),
		BowelStatus:      pickValid(in.BowelStatus, validBowelStatus),
	}
	if dr.Mood == "" && dr.Health == "" && dr.TemperatureCheck == "" &&
		dr.MealStatus == "" && dr.SleepTime == "" && dr.BowelStatus == "" {
		return nil
	}
	return dr
}

// CreateReportRequest is the report creation payload
type CreateReportRequest struct {
	PetID       string            `json:"petId"`
	Content     string            `json:"content"`
	MediaURLs   []string          `json:"mediaUrls"`
	DailyRecord *DailyRecordInput `json:"dailyRecord"`
}

// UpdateReportRequest is the report edit payload. DailyRecord keeps the
// raw message so "absent", "null" (delete) and an object (upsert) stay
// distinguishable.
type UpdateReportRequest struct {
	Content     *string         `json:"content"`
	MediaURLs   *[]string       `json:"mediaUrls"`
	DailyRecord json.RawMessage `json:"dailyRecord"`
}

// ReportSummary is one row of the report listing. Guardian listings fill
// IsRead/ReadAt; admin listings fill GuardianName/IsReadByGuardian/
// IsReadByAdmin. Shared fields are always present.
type ReportSummary struct {
	ID           string    `json:"id"`
	PetID        string    `json:"petId"`
	AuthorUserID string    `json:"authorUserId"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	IsGuardianPost bool     `json:"isGuardianPost"`
	Pet            PetInfo  `json:"pet"`
	CommentCount   int64    `json:"commentCount"`
	ThumbnailURL   *string  `json:"thumbnailUrl"`
	GroupName      *string  `json:"groupName"`
	GroupID        *string  `json:"groupId"`

	// Guardian listing only
	IsRead *bool      `json:"isRead,omitempty"`
	ReadAt *time.Time `json:"readAt,omitempty"`

	// Admin listing only
	GuardianName     *string `json:"guardianName,omitempty"`
	IsReadByGuardian *bool   `json:"isReadByGuardian,omitempty"`
	IsReadByAdmin    *bool   `json:"isReadByAdmin,omitempty"`
}

// ReportDetail is the full report view with caller-specific read state
type ReportDetail struct {
	ID             string             `json:"id"`
	PetID          string             `json:"petId"`
	AuthorUserID   string             `json:"authorUserId"`
	Content        string             `json:"content"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
	Pet            PetInfo            `json:"pet"`
	AuthorName     string             `json:"authorName"`
	Media          []ReportMedia      `json:"media"`
	DailyRecord    *ReportDailyRecord `json:"dailyRecord"`
	IsGuardianPost bool               `json:"isGuardianPost"`
	IsRead         bool               `json:"isRead"`
	ReadAt         *time.Time         `json:"readAt"`
	GroupName      *string            `json:"groupName"`
	GroupID        *string            `json:"groupId"`
}

// UnreadCountResponse wraps the unread report count
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// RemindResponse is the remind endpoint result
type RemindResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
