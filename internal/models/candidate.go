package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CandidateStatus string

const (
	CandidateStatusNew       CandidateStatus = "new"
	CandidateStatusScreening CandidateStatus = "screening"
	CandidateStatusInterview CandidateStatus = "interview"
	CandidateStatusOffer     CandidateStatus = "offer"
	CandidateStatusHired     CandidateStatus = "hired"
	CandidateStatusRejected  CandidateStatus = "rejected"
)

type Candidate struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name            string          `gorm:"type:text;not null" json:"name"`
	Email           string          `gorm:"type:text;index" json:"email"`
	Phone           string          `gorm:"type:text" json:"phone"`
	Location        string          `gorm:"type:text" json:"location"`
	ExpectedSalary  int64           `gorm:"default:0" json:"expected_salary"`
	ExperienceYears int             `gorm:"default:0" json:"experience_years"`
	Skills          pq.StringArray  `gorm:"type:text[]" json:"skills"`
	Status          CandidateStatus `gorm:"not null;default:'new'" json:"status"`
	JobID           *uuid.UUID      `gorm:"type:uuid" json:"job_id,omitempty"`
	ResumeFilename  string          `gorm:"type:text" json:"resume_filename,omitempty"`
	ResumePath      string          `gorm:"type:text" json:"-"`
	ResumeText      string          `gorm:"type:text" json:"-"`
	CreatedAt       time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Job *Job `gorm:"foreignKey:JobID" json:"-"`
}

func (Candidate) TableName() string {
	return "candidates"
}
