package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireos/internal/models"
)

type InterviewRepository interface {
	ListByCandidate(candidateID uuid.UUID) ([]models.Interview, error)
	FindByID(id uuid.UUID) (*models.Interview, error)
	Create(interview *models.Interview) error
	Update(interview *models.Interview) error
	Delete(id uuid.UUID) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) ListByCandidate(candidateID uuid.UUID) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("scheduled_at ASC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.Where("id = ?", id).First(&interview).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("interview not found")
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

func (r *interviewRepository) Update(interview *models.Interview) error {
	result := r.db.Model(&models.Interview{}).Where("id = ?", interview.ID).Updates(interview)
	if result.Error != nil {
		return fmt.Errorf("failed to update interview: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview not found")
	}
	return nil
}

func (r *interviewRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Interview{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete interview: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview not found")
	}
	return nil
}

type OfferRepository interface {
	ListByCandidate(candidateID uuid.UUID) ([]models.Offer, error)
	FindByID(id uuid.UUID) (*models.Offer, error)
	Create(offer *models.Offer) error
	Update(offer *models.Offer) error
	Delete(id uuid.UUID) error
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) ListByCandidate(candidateID uuid.UUID) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

func (r *offerRepository) FindByID(id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.Where("id = ?", id).First(&offer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("offer not found")
		}
		return nil, fmt.Errorf("failed to find offer: %w", err)
	}
	return &offer, nil
}

func (r *offerRepository) Create(offer *models.Offer) error {
	if err := r.db.Create(offer).Error; err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

func (r *offerRepository) Update(offer *models.Offer) error {
	result := r.db.Model(&models.Offer{}).Where("id = ?", offer.ID).Updates(offer)
	if result.Error != nil {
		return fmt.Errorf("failed to update offer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("offer not found")
	}
	return nil
}

func (r *offerRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Offer{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete offer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("offer not found")
	}
	return nil
}
