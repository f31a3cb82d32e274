package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type IntegrationProvider string

const (
	ProviderHubSpot      IntegrationProvider = "hubspot"
	ProviderAirtable     IntegrationProvider = "airtable"
	ProviderGoogleSheets IntegrationProvider = "google_sheets"
)

// Integration is one connection to an external contact store. Credentials are
// an opaque provider-specific blob; only the provider adapter knows its shape.
type Integration struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name            string              `gorm:"type:text;not null" json:"name"`
	Provider        IntegrationProvider `gorm:"type:text;not null" json:"provider"`
	CredentialsJSON []byte              `gorm:"type:jsonb" json:"-"`
	FieldMapJSON    []byte              `gorm:"type:jsonb" json:"-"`
	AutoSync        bool                `gorm:"default:false" json:"auto_sync"`
	LastSyncedAt    *time.Time          `json:"last_synced_at,omitempty"`
	CreatedAt       time.Time           `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Integration) TableName() string {
	return "integrations"
}

// Credentials decodes the opaque credential blob into a generic map for the
// provider adapter to interpret.
func (i *Integration) Credentials() (map[string]interface{}, error) {
	creds := map[string]interface{}{}
	if len(i.CredentialsJSON) == 0 {
		return creds, nil
	}
	if err := json.Unmarshal(i.CredentialsJSON, &creds); err != nil {
		return nil, fmt.Errorf("failed to decode integration credentials: %w", err)
	}
	return creds, nil
}

// FieldMap decodes the per-integration field mapping table
// (internal field name -> provider field name).
func (i *Integration) FieldMap() (map[string]string, error) {
	mapping := map[string]string{}
	if len(i.FieldMapJSON) == 0 {
		return mapping, nil
	}
	if err := json.Unmarshal(i.FieldMapJSON, &mapping); err != nil {
		return nil, fmt.Errorf("failed to decode field mappings: %w", err)
	}
	return mapping, nil
}

type SyncRunMode string

const (
	SyncRunModePreview SyncRunMode = "preview"
	SyncRunModeExecute SyncRunMode = "execute"
	SyncRunModePush    SyncRunMode = "push"
)

// SyncRun is the persisted audit record of one reconciliation run.
type SyncRun struct {
	ID                    uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	IntegrationID         uuid.UUID   `gorm:"type:uuid;not null;index" json:"integration_id"`
	Mode                  SyncRunMode `gorm:"type:text;not null" json:"mode"`
	Success               bool        `gorm:"default:false" json:"success"`
	TotalExternalContacts int         `gorm:"default:0" json:"total_external_contacts"`
	TotalCandidates       int         `gorm:"default:0" json:"total_candidates"`
	Matched               int         `gorm:"default:0" json:"matched"`
	Updated               int         `gorm:"default:0" json:"updated"`
	Created               int         `gorm:"default:0" json:"created"`
	Skipped               int         `gorm:"default:0" json:"skipped"`
	ErrorMessage          string      `gorm:"type:text" json:"error_message,omitempty"`
	DetailsJSON           []byte      `gorm:"type:jsonb" json:"-"`
	DurationMs            int64       `gorm:"default:0" json:"duration_ms"`
	StartedAt             time.Time   `json:"started_at"`
	FinishedAt            time.Time   `json:"finished_at"`

	// Relations
	Integration Integration `gorm:"foreignKey:IntegrationID" json:"-"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}
