package models

import "gorm.io/gorm"

// All lists every persisted model in dependency order.
func All() []any {
	return []any{&User{}, &Applicant{}, &Offer{}, &Application{}, &Interview{}}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
