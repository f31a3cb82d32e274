package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireos/internal/models"
)

// CandidateRepository is the internal persistence boundary the reconciliation
// engine writes through. The engine never touches *gorm.DB directly.
type CandidateRepository interface {
	List() ([]models.Candidate, error)
	FindByID(id uuid.UUID) (*models.Candidate, error)
	Create(candidate *models.Candidate) error
	UpdatePartial(id uuid.UUID, updates map[string]interface{}) error
	Delete(id uuid.UUID) error
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) List() ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := r.db.Order("created_at ASC").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) FindByID(id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.Where("id = ?", id).First(&candidate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("candidate not found")
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) Create(candidate *models.Candidate) error {
	if err := r.db.Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

// UpdatePartial writes only the given columns. The reconciliation engine
// relies on this to never overwrite a field the provider had no opinion on.
func (r *candidateRepository) UpdatePartial(id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	result := r.db.Model(&models.Candidate{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update candidate: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate not found")
	}

	return nil
}

func (r *candidateRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Candidate{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete candidate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate not found")
	}
	return nil
}
