package migration

import (
	"github.com/danbi-app/danbi-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for every model. Tables are created when
// missing and altered in place otherwise.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Profile{},
		&domain.Group{},
		&domain.Pet{},
		&domain.Membership{},
		&domain.Report{},
		&domain.ReportMedia{},
		&domain.ReportDailyRecord{},
		&domain.ReportRead{},
		&domain.ReportComment{},
		&domain.PushSubscription{},
	)
}
