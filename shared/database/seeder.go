package database

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"motri-backend/shared/config"
	"motri-backend/shared/database/models"
)

// SeedDirector creates the configured director account if it does not
// exist yet. Directors are never created through the API, so this is the
// only in-process creation path besides cmd/create-director.
func SeedDirector(db *gorm.DB, cfg *config.Config) error {
	if cfg.DirectorUsername == "" || cfg.DirectorEmail == "" || cfg.DirectorPassword == "" {
		log.Println("ℹ️  Director bootstrap not configured - skipping seed")
		return nil
	}

	return CreateDirector(db, cfg.DirectorUsername, cfg.DirectorEmail, cfg.DirectorPassword)
}

// ErrDirectorExists is returned when a director with the same username or
// email already exists.
var ErrDirectorExists = errors.New("director already exists")

// CreateDirector inserts a new director with a hashed password.
func CreateDirector(db *gorm.DB, username, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	var existing models.Director
	err := db.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		return ErrDirectorExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	director := models.Director{
		Username: username,
		Email:    email,
	}
	if err := director.SetPassword(password); err != nil {
		return fmt.Errorf("failed to hash director password: %w", err)
	}

	if err := db.Create(&director).Error; err != nil {
		return fmt.Errorf("failed to create director: %w", err)
	}

	log.Printf("✅ Director account created: %s", username)
	return nil
}
