package repository

import (
	"github.com/danbi-app/danbi-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushSubscriptionRepository push endpoint data access
type PushSubscriptionRepository interface {
	ListByUser(userID string) ([]*domain.PushSubscription, error)
	Upsert(sub *domain.PushSubscription) error
	DeleteByID(id string) error
	DeleteByUserEndpoint(userID, endpoint string) error
}

type pushSubscriptionRepository struct {
	db *gorm.DB
}

// NewPushSubscriptionRepository creates a new PushSubscriptionRepository
func NewPushSubscriptionRepository(db *gorm.DB) PushSubscriptionRepository {
	return &pushSubscriptionRepository{db: db}
}

func (r *pushSubscriptionRepository) ListByUser(userID string) ([]*domain.PushSubscription, error) {
	var subs []*domain.PushSubscription
	err := r.db.Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}

// Upsert re-subscribing the same endpoint rebinds it to the latest
// user/keys instead of duplicating the row
func (r *pushSubscriptionRepository) Upsert(sub *domain.PushSubscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

func (r *pushSubscriptionRepository) DeleteByID(id string) error {
	return r.db.Delete(&domain.PushSubscription{}, "id = ?", id).Error
}

func (r *pushSubscriptionRepository) DeleteByUserEndpoint(userID, endpoint string) error {
	return r.db.Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&domain.PushSubscription{}).Error
}
