package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Unique-violation on insert must surface as gorm.ErrDuplicatedKey
		// so the service layer can treat it as the domain conflict case.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate runs AutoMigrate for all core models. Exposed for test databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Profile{},
		&model.Photo{},
		&model.Club{},
		&model.Like{},
		&model.Match{},
		&model.Message{},
		&model.MessageDeletion{},
		&model.PrivacySettings{},
		&model.TonightPlan{},
	)
}
