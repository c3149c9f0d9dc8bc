package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginAttempt records every director login attempt, successful or not.
// Consumed by the handler-level rate check and kept as an audit trail.
type LoginAttempt struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Identifier  string    `json:"identifier" gorm:"size:255;index"`
	IPAddress   string    `json:"ip_address" gorm:"size:50;index"`
	Successful  bool      `json:"successful" gorm:"default:false"`
	FailureType string    `json:"failure_type" gorm:"size:100"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

func (a *LoginAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
