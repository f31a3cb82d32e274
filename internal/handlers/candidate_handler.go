package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"hireos/internal/models"
	"hireos/internal/repositories"
	"hireos/internal/services"
)

type CandidateHandler struct {
	candidateRepo repositories.CandidateRepository
	storage       services.StorageService
	parser        services.ResumeParserService
	maxFileSize   int64
}

func NewCandidateHandler(
	candidateRepo repositories.CandidateRepository,
	storage services.StorageService,
	parser services.ResumeParserService,
	maxFileSize int64,
) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo: candidateRepo,
		storage:       storage,
		parser:        parser,
		maxFileSize:   maxFileSize,
	}
}

// HandleList handles GET /candidates
func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	candidates, err := h.candidateRepo.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list candidates",
		})
	}

	return c.JSON(fiber.Map{
		"candidates": candidates,
		"total":      len(candidates),
	})
}

// HandleGet handles GET /candidates/:id
func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	candidate, err := h.candidateRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	return c.JSON(candidate)
}

// HandleCreate handles POST /candidates
func (h *CandidateHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CandidateRequest

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

	candidate := &models.Candidate{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Location:        req.Location,
		ExpectedSalary:  req.ExpectedSalary,
		ExperienceYears: req.ExperienceYears,
		Skills:          pq.StringArray(req.Skills),
		Status:          models.CandidateStatusNew,
	}

	if req.Status != "" {
		candidate.Status = models.CandidateStatus(req.Status)
	}
	if req.JobID != "" {
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid job_id format",
			})
		}
		candidate.JobID = &jobID
	}

	if err := h.candidateRepo.Create(candidate); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create candidate",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(candidate)
}

// HandleUpdate handles PUT /candidates/:id
func (h *CandidateHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	var req models.CandidateRequest
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

	updates := map[string]interface{}{
		"name":             req.Name,
		"email":            req.Email,
		"phone":            req.Phone,
		"location":         req.Location,
		"expected_salary":  req.ExpectedSalary,
		"experience_years": req.ExperienceYears,
		"skills":           pq.StringArray(req.Skills),
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.JobID != "" {
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid job_id format",
			})
		}
		updates["job_id"] = jobID
	}

	if err := h.candidateRepo.UpdatePartial(id, updates); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Failed to update candidate",
		})
	}

	candidate, err := h.candidateRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	return c.JSON(candidate)
}

// HandleDelete handles DELETE /candidates/:id
func (h *CandidateHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	if err := h.candidateRepo.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadResume handles POST /candidates/:id/resume. The resume PDF is
// stored on disk and its extracted text is saved on the candidate record.
func (h *CandidateHandler) HandleUploadResume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate id",
		})
	}

	if _, err := h.candidateRepo.FindByID(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No 'resume' file in request",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storage.SaveResume(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume: %v", err),
		})
	}

	content, err := h.parser.ExtractText(filePath)
	if err != nil {
		h.storage.DeleteFile(filename)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to parse resume: %v", err),
		})
	}

	updates := map[string]interface{}{
		"resume_filename": filename,
		"resume_path":     filePath,
		"resume_text":     content.Text,
	}
	if err := h.candidateRepo.UpdatePartial(id, updates); err != nil {
		h.storage.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save resume record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResumeResponse{
		CandidateID:  id.String(),
		Filename:     filename,
		OriginalName: file.Filename,
		PageCount:    content.PageCount,
	})
}
