package domain

import "time"

// PushSubscription is one browser push endpoint for a user. A user may
// hold several (one per device/browser); endpoints gone stale are pruned
// when the push service reports them gone.
type PushSubscription struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"column:user_id;size:36;index" json:"userId"`
	Endpoint  string    `gorm:"column:endpoint;size:500;uniqueIndex:uq_push_endpoint,length:255" json:"endpoint"`
	P256dh    string    `gorm:"column:p256dh;size:255" json:"-"`
	Auth      string    `gorm:"column:auth;size:255" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

// TableName returns the table name
func (PushSubscription) TableName() string {
	return "push_subscriptions"
}

// SubscribeRequest is the push subscribe/unsubscribe payload, matching
// the browser PushSubscription JSON shape
type SubscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}
