package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	utils "motri-backend/shared/utils/auth"
)

// Director is the privileged account that reviews submitted reports.
// The password field only ever holds a bcrypt hash; SetPassword is the
// single write path for it.
type Director struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email    string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password string    `json:"-" gorm:"not null"`

	// Reset token state: hash and expiry are set together on a
	// forgot-password request and cleared together on a successful reset.
	ResetTokenHash      *string    `json:"-" gorm:"size:64;index"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Director) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	return nil
}

// SetPassword hashes plaintext and assigns the hash. No code path may
// write Password directly.
func (d *Director) SetPassword(plaintext string) error {
	hash, err := utils.HashPassword(plaintext)
	if err != nil {
		return err
	}
	d.Password = hash
	return nil
}

// CheckPassword verifies plaintext against the stored hash.
func (d *Director) CheckPassword(plaintext string) bool {
	return utils.CheckPasswordHash(plaintext, d.Password)
}
