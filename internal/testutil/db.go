// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vpnshop/internal/client"
	"vpnshop/internal/config"
	"vpnshop/internal/model"
)

// NewDB opens a migrated SQLite database in a temp dir, closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := client.InitDBClient(config.Database{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = client.CloseDB(db)
	})
	return db
}

// CreateUser inserts a user with password "password" (minimum bcrypt cost).
func CreateUser(t *testing.T, db *gorm.DB, email string, cart ...string) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &model.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		Cart:         model.NewProductIDs(cart...),
	}
	if err := db.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}
