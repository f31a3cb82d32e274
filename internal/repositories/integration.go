package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireos/internal/models"
)

type IntegrationRepository interface {
	List() ([]models.Integration, error)
	ListAutoSync() ([]models.Integration, error)
	FindByID(id uuid.UUID) (*models.Integration, error)
	Create(integration *models.Integration) error
	Update(integration *models.Integration) error
	TouchLastSynced(id uuid.UUID, at time.Time) error
	Delete(id uuid.UUID) error
}

type integrationRepository struct {
	db *gorm.DB
}

func NewIntegrationRepository(db *gorm.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

func (r *integrationRepository) List() ([]models.Integration, error) {
	var integrations []models.Integration
	if err := r.db.Order("created_at ASC").Find(&integrations).Error; err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	return integrations, nil
}

func (r *integrationRepository) ListAutoSync() ([]models.Integration, error) {
	var integrations []models.Integration
	if err := r.db.Where("auto_sync = ?", true).Find(&integrations).Error; err != nil {
		return nil, fmt.Errorf("failed to list auto-sync integrations: %w", err)
	}
	return integrations, nil
}

func (r *integrationRepository) FindByID(id uuid.UUID) (*models.Integration, error) {
	var integration models.Integration
	if err := r.db.Where("id = ?", id).First(&integration).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("integration not found")
		}
		return nil, fmt.Errorf("failed to find integration: %w", err)
	}
	return &integration, nil
}

func (r *integrationRepository) Create(integration *models.Integration) error {
	if err := r.db.Create(integration).Error; err != nil {
		return fmt.Errorf("failed to create integration: %w", err)
	}
	return nil
}

func (r *integrationRepository) Update(integration *models.Integration) error {
	result := r.db.Model(&models.Integration{}).
		Where("id = ?", integration.ID).
		Updates(map[string]interface{}{
			"name":             integration.Name,
			"provider":         integration.Provider,
			"credentials_json": integration.CredentialsJSON,
			"field_map_json":   integration.FieldMapJSON,
			"auto_sync":        integration.AutoSync,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update integration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("integration not found")
	}
	return nil
}

func (r *integrationRepository) TouchLastSynced(id uuid.UUID, at time.Time) error {
	return r.db.Model(&models.Integration{}).
		Where("id = ?", id).
		Update("last_synced_at", at).Error
}

func (r *integrationRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Integration{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete integration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("integration not found")
	}
	return nil
}

type SyncRunRepository interface {
	Create(run *models.SyncRun) error
	ListByIntegration(integrationID uuid.UUID, limit int) ([]models.SyncRun, error)
}

type syncRunRepository struct {
	db *gorm.DB
}

func NewSyncRunRepository(db *gorm.DB) SyncRunRepository {
	return &syncRunRepository{db: db}
}

func (r *syncRunRepository) Create(run *models.SyncRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create sync run: %w", err)
	}
	return nil
}

func (r *syncRunRepository) ListByIntegration(integrationID uuid.UUID, limit int) ([]models.SyncRun, error) {
	var runs []models.SyncRun
	err := r.db.
		Where("integration_id = ?", integrationID).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	return runs, nil
}
