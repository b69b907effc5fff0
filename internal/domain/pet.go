package domain

import "time"

// Pet represents a pet registered by its guardian
type Pet struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name        string    `gorm:"column:name;size:100" json:"name"`
	Breed       string    `gorm:"column:breed;size:100" json:"breed"`
	PhotoURL    string    `gorm:"column:photo_url;size:500" json:"photoUrl"`
	Note        string    `gorm:"column:note;size:1000" json:"note"`
	OwnerUserID string    `gorm:"column:owner_user_id;size:36;index" json:"ownerUserId"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`

	Owner       *Profile     `gorm:"foreignKey:OwnerUserID;references:UserID" json:"-"`
	Memberships []Membership `gorm:"foreignKey:PetID" json:"-"`
}

// TableName returns the table name
func (Pet) TableName() string {
	return "pets"
}

// PetInfo is the pet shape embedded in report responses
type PetInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl"`
}
