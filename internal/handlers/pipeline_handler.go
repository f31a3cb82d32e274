package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireos/internal/models"
	"hireos/internal/repositories"
)

// PipelineHandler covers the interview and offer stages of a candidate's
// pipeline.
type PipelineHandler struct {
	interviewRepo repositories.InterviewRepository
	offerRepo     repositories.OfferRepository
	candidateRepo repositories.CandidateRepository
}

func NewPipelineHandler(
	interviewRepo repositories.InterviewRepository,
	offerRepo repositories.OfferRepository,
	candidateRepo repositories.CandidateRepository,
) *PipelineHandler {
	return &PipelineHandler{
		interviewRepo: interviewRepo,
		offerRepo:     offerRepo,
		candidateRepo: candidateRepo,
	}
}

// HandleListInterviews handles GET /candidates/:id/interviews
func (h *PipelineHandler) HandleListInterviews(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	interviews, err := h.interviewRepo.ListByCandidate(candidateID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list interviews",
		})
	}

	return c.JSON(fiber.Map{
		"interviews": interviews,
		"total":      len(interviews),
	})
}

// HandleCreateInterview handles POST /interviews
func (h *PipelineHandler) HandleCreateInterview(c *fiber.Ctx) error {
	var req models.InterviewRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	candidateID, _ := uuid.Parse(req.CandidateID)
	jobID, _ := uuid.Parse(req.JobID)

	if _, err := h.candidateRepo.FindByID(candidateID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	interview := &models.Interview{
		CandidateID: candidateID,
		JobID:       jobID,
		Stage:       req.Stage,
		ScheduledAt: req.ScheduledAt,
		Status:      models.InterviewStatusScheduled,
		Notes:       req.Notes,
	}
	if req.Status != "" {
		interview.Status = models.InterviewStatus(req.Status)
	}

	if err := h.interviewRepo.Create(interview); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create interview",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(interview)
}

// HandleUpdateInterview handles PUT /interviews/:id
func (h *PipelineHandler) HandleUpdateInterview(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview id",
		})
	}

	var req models.InterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	candidateID, _ := uuid.Parse(req.CandidateID)
	jobID, _ := uuid.Parse(req.JobID)

	interview := &models.Interview{
		ID:          id,
		CandidateID: candidateID,
		JobID:       jobID,
		Stage:       req.Stage,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	}
	if req.Status != "" {
		interview.Status = models.InterviewStatus(req.Status)
	}

	if err := h.interviewRepo.Update(interview); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Failed to update interview",
		})
	}

	updated, err := h.interviewRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}

	return c.JSON(updated)
}

// HandleDeleteInterview handles DELETE /interviews/:id
func (h *PipelineHandler) HandleDeleteInterview(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview id",
		})
	}

	if err := h.interviewRepo.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListOffers handles GET /candidates/:id/offers
func (h *PipelineHandler) HandleListOffers(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	offers, err := h.offerRepo.ListByCandidate(candidateID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list offers",
		})
	}

	return c.JSON(fiber.Map{
		"offers": offers,
		"total":  len(offers),
	})
}

// HandleCreateOffer handles POST /offers
func (h *PipelineHandler) HandleCreateOffer(c *fiber.Ctx) error {
	var req models.OfferRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	candidateID, _ := uuid.Parse(req.CandidateID)
	jobID, _ := uuid.Parse(req.JobID)

	if _, err := h.candidateRepo.FindByID(candidateID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	offer := &models.Offer{
		CandidateID: candidateID,
		JobID:       jobID,
		Salary:      req.Salary,
		Status:      models.OfferStatusDraft,
	}
	if req.Status != "" {
		offer.Status = models.OfferStatus(req.Status)
	}
	if offer.Status == models.OfferStatusSent {
		now := time.Now()
		offer.SentAt = &now
	}

	if err := h.offerRepo.Create(offer); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create offer",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(offer)
}

// HandleUpdateOffer handles PUT /offers/:id
func (h *PipelineHandler) HandleUpdateOffer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid offer id",
		})
	}

	var req models.OfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	existing, err := h.offerRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	candidateID, _ := uuid.Parse(req.CandidateID)
	jobID, _ := uuid.Parse(req.JobID)

	offer := &models.Offer{
		ID:          id,
		CandidateID: candidateID,
		JobID:       jobID,
		Salary:      req.Salary,
	}
	if req.Status != "" {
		offer.Status = models.OfferStatus(req.Status)
	}
	if offer.Status == models.OfferStatusSent && existing.SentAt == nil {
		now := time.Now()
		offer.SentAt = &now
	}

	if err := h.offerRepo.Update(offer); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Failed to update offer",
		})
	}

	updated, err := h.offerRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	return c.JSON(updated)
}

// HandleDeleteOffer handles DELETE /offers/:id
func (h *PipelineHandler) HandleDeleteOffer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid offer id",
		})
	}

	if err := h.offerRepo.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Offer not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
