package domain

import "time"

// Roles resolved from the auth token
const (
	RoleAdmin    = "ADMIN"
	RoleGuardian = "GUARDIAN"
)

// Profile represents a registered user (관리자 또는 보호자)
type Profile struct {
	UserID    string    `gorm:"column:user_id;primaryKey;size:36" json:"userId"`
	Name      string    `gorm:"column:name;size:100" json:"name"`
	Role      string    `gorm:"column:role;size:16;index" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

// TableName returns the table name
func (Profile) TableName() string {
	return "profiles"
}

// AuthUser is the request-scoped caller identity resolved by the auth middleware
type AuthUser struct {
	UserID string
	Name   string
	Role   string
}

// IsAdmin reports whether the caller manages groups
func (u *AuthUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsGuardian reports whether the caller is a pet owner
func (u *AuthUser) IsGuardian() bool {
	return u.Role == RoleGuardian
}

// AuthorInfo is the author shape embedded in report/comment responses
type AuthorInfo struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}
