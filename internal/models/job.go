package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Department  string    `gorm:"type:text" json:"department"`
	Location    string    `gorm:"type:text" json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	SalaryMin   int64     `gorm:"default:0" json:"salary_min"`
	SalaryMax   int64     `gorm:"default:0" json:"salary_max"`
	Status      JobStatus `gorm:"not null;default:'draft'" json:"status"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

type InterviewStatus string

const (
	InterviewStatusScheduled InterviewStatus = "scheduled"
	InterviewStatusCompleted InterviewStatus = "completed"
	InterviewStatusCanceled  InterviewStatus = "canceled"
)

type Interview struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID uuid.UUID       `gorm:"type:uuid;not null;index" json:"candidate_id"`
	JobID       uuid.UUID       `gorm:"type:uuid;not null" json:"job_id"`
	Stage       string          `gorm:"type:text" json:"stage"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Status      InterviewStatus `gorm:"not null;default:'scheduled'" json:"status"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Candidate Candidate `gorm:"foreignKey:CandidateID" json:"-"`
	Job       Job       `gorm:"foreignKey:JobID" json:"-"`
}

func (Interview) TableName() string {
	return "interviews"
}

type OfferStatus string

const (
	OfferStatusDraft    OfferStatus = "draft"
	OfferStatusSent     OfferStatus = "sent"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusDeclined OfferStatus = "declined"
)

type Offer struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID uuid.UUID   `gorm:"type:uuid;not null;index" json:"candidate_id"`
	JobID       uuid.UUID   `gorm:"type:uuid;not null" json:"job_id"`
	Salary      int64       `gorm:"default:0" json:"salary"`
	Status      OfferStatus `gorm:"not null;default:'draft'" json:"status"`
	SentAt      *time.Time  `json:"sent_at,omitempty"`
	CreatedAt   time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Candidate Candidate `gorm:"foreignKey:CandidateID" json:"-"`
	Job       Job       `gorm:"foreignKey:JobID" json:"-"`
}

func (Offer) TableName() string {
	return "offers"
}
