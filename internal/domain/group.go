package domain

import "time"

// Group represents a daycare facility (원), owned by one admin
type Group struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name        string    `gorm:"column:name;size:200" json:"name"`
	OwnerUserID string    `gorm:"column:owner_user_id;size:36;index" json:"ownerUserId"`
	Sido        string    `gorm:"column:sido;size:50" json:"sido"`
	Sigungu     string    `gorm:"column:sigungu;size:50" json:"sigungu"`
	Address     string    `gorm:"column:address;size:300" json:"address"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`

	Owner *Profile `gorm:"foreignKey:OwnerUserID;references:UserID" json:"-"`
}

// TableName returns the table name
func (Group) TableName() string {
	return "groups"
}
