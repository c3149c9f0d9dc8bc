package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Abuse type enumeration, matching the public submission form.
const (
	AbuseTypePhysical  = "Physical"
	AbuseTypeEmotional = "Emotional"
	AbuseTypeSexual    = "Sexual"
	AbuseTypeFinancial = "Financial"
	AbuseTypeOther     = "Other"
)

// AbuseTypes lists the accepted report classifications.
func AbuseTypes() []string {
	return []string{
		AbuseTypePhysical,
		AbuseTypeEmotional,
		AbuseTypeSexual,
		AbuseTypeFinancial,
		AbuseTypeOther,
	}
}

// Report is a single anonymous incident submission. Immutable after
// creation except for deletion.
type Report struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string    `json:"name" gorm:"size:255;not null"`
	Email          string    `json:"email" gorm:"size:255;not null"`
	Phone          string    `json:"phone" gorm:"size:50;not null"`
	AbuseType      string    `json:"abuseType" gorm:"size:50;not null"`
	Description    string    `json:"description" gorm:"type:text;not null"`
	Sex            string    `json:"sex" gorm:"size:20;not null"`
	WorkPosition   string    `json:"workPosition" gorm:"size:100;not null"`
	EducationLevel string    `json:"educationLevel" gorm:"size:100;not null"`
	JobType        string    `json:"jobType" gorm:"size:100;not null"`
	IncidentTime   string    `json:"incidentTime" gorm:"size:100;not null"`
	IncidentPlace  string    `json:"incidentPlace" gorm:"size:255;not null"`
	IncidentDay    string    `json:"incidentDay" gorm:"size:100;not null"`

	// Object key of the optional uploaded image in MinIO.
	Image string `json:"image,omitempty" gorm:"size:255"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
