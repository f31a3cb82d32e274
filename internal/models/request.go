package models

import "time"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type CandidateRequest struct {
	Name            string   `json:"name" validate:"required"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Phone           string   `json:"phone"`
	Location        string   `json:"location"`
	ExpectedSalary  int64    `json:"expected_salary" validate:"gte=0"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0"`
	Skills          []string `json:"skills"`
	Status          string   `json:"status" validate:"omitempty,oneof=new screening interview offer hired rejected"`
	JobID           string   `json:"job_id" validate:"omitempty,uuid"`
}

type JobRequest struct {
	Title       string `json:"title" validate:"required"`
	Department  string `json:"department"`
	Location    string `json:"location"`
	Description string `json:"description"`
	SalaryMin   int64  `json:"salary_min" validate:"gte=0"`
	SalaryMax   int64  `json:"salary_max" validate:"gte=0"`
	Status      string `json:"status" validate:"omitempty,oneof=draft open closed"`
}

type InterviewRequest struct {
	CandidateID string    `json:"candidate_id" validate:"required,uuid"`
	JobID       string    `json:"job_id" validate:"required,uuid"`
	Stage       string    `json:"stage"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Status      string    `json:"status" validate:"omitempty,oneof=scheduled completed canceled"`
	Notes       string    `json:"notes"`
}

type OfferRequest struct {
	CandidateID string `json:"candidate_id" validate:"required,uuid"`
	JobID       string `json:"job_id" validate:"required,uuid"`
	Salary      int64  `json:"salary" validate:"gte=0"`
	Status      string `json:"status" validate:"omitempty,oneof=draft sent accepted declined"`
}

type IntegrationRequest struct {
	Name        string                 `json:"name" validate:"required"`
	Provider    string                 `json:"provider" validate:"required,oneof=hubspot airtable google_sheets"`
	Credentials map[string]interface{} `json:"credentials"`
	FieldMap    map[string]string      `json:"field_map"`
	AutoSync    bool                   `json:"auto_sync"`
}

// SyncExecuteRequest carries the execute-mode options. A null (absent)
// selected_contact_ids means "import everything eligible"; an empty array
// means "import nothing".
type SyncExecuteRequest struct {
	SelectedContactIDs []string `json:"selected_contact_ids"`
	SkipNewCandidates  bool     `json:"skip_new_candidates"`
}

type UploadResumeResponse struct {
	CandidateID  string `json:"candidate_id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	PageCount    int    `json:"page_count"`
}
