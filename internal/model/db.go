package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Permission{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Operation{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Comment{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&DocumentVersion{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&ConflictRecord{}); err != nil {
		return err
	}

	return db.AutoMigrate(&CollabSession{})
}
