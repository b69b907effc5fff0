package domain

import "time"

// Membership status values
const (
	MembershipPending  = "PENDING"
	MembershipApproved = "APPROVED"
	MembershipRejected = "REJECTED"
)

// Membership links a guardian's pet to a group, gated by admin approval.
// ActiveKey is 1 only while APPROVED; the composite unique index
// (pet_id, active_key) enforces at most one active enrollment per pet
// at the database level (NULL rows never collide in MySQL).
type Membership struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"column:user_id;size:36;index" json:"userId"`
	GroupID   string    `gorm:"column:group_id;size:36;index" json:"groupId"`
	PetID     string    `gorm:"column:pet_id;size:36;uniqueIndex:uq_membership_active_pet,priority:1" json:"petId"`
	Status    string    `gorm:"column:status;size:16;index" json:"status"`
	ActiveKey *uint8    `gorm:"column:active_key;uniqueIndex:uq_membership_active_pet,priority:2" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`

	Group *Group   `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Pet   *Pet     `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	User  *Profile `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName returns the table name
func (Membership) TableName() string {
	return "memberships"
}

// JoinRequest is the guardian's enrollment request payload
type JoinRequest struct {
	GroupID string `json:"groupId"`
	PetID   string `json:"petId"`
}

// DecideMembershipRequest is the admin's approve/reject payload
type DecideMembershipRequest struct {
	Status string `json:"status"`
}
