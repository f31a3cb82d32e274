package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireos/internal/models"
)

type JobRepository interface {
	List() ([]models.Job, error)
	FindByID(id uuid.UUID) (*models.Job, error)
	FindFirstOpen() (*models.Job, error)
	Create(job *models.Job) error
	Update(job *models.Job) error
	Delete(id uuid.UUID) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) List() ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) FindByID(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

// FindFirstOpen returns the oldest currently-open job, used as the default
// assignment for candidates created during a sync run.
func (r *jobRepository) FindFirstOpen() (*models.Job, error) {
	var job models.Job
	err := r.db.
		Where("status = ?", models.JobStatusOpen).
		Order("created_at ASC").
		First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("no open job found")
		}
		return nil, fmt.Errorf("failed to find open job: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) Update(job *models.Job) error {
	result := r.db.Model(&models.Job{}).Where("id = ?", job.ID).Updates(job)
	if result.Error != nil {
		return fmt.Errorf("failed to update job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found")
	}
	return nil
}

func (r *jobRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Job{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found")
	}
	return nil
}
