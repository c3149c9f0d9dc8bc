package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordResetAttempt records forgot-password requests per email and IP.
type PasswordResetAttempt struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email      string    `json:"email" gorm:"size:255;index"`
	IPAddress  string    `json:"ip_address" gorm:"size:50;index"`
	Successful bool      `json:"successful" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

func (a *PasswordResetAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
