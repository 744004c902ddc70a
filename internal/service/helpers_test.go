package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"backend/internal/database"
	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setup in-memory DB with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	// every connection would get its own :memory: database otherwise
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		Name:         email,
		Role:         "user",
		AuthProvider: "email",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createTestProfile(t *testing.T, db *gorm.DB, userID uuid.UUID, gender, interestedIn string, lat, lon float64) *model.Profile {
	t.Helper()
	profile := &model.Profile{
		UserID:       userID,
		Name:         fmt.Sprintf("profile-%s", userID),
		Age:          25,
		Gender:       gender,
		InterestedIn: interestedIn,
		City:         "Berlin",
		Latitude:     lat,
		Longitude:    lon,
		HasLocation:  true,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}

func testCtx() context.Context {
	return context.Background()
}
