package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireos/internal/models"
	"hireos/internal/repositories"
)

type JobHandler struct {
	jobRepo repositories.JobRepository
}

func NewJobHandler(jobRepo repositories.JobRepository) *JobHandler {
	return &JobHandler{jobRepo: jobRepo}
}

// HandleList handles GET /jobs
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list jobs",
		})
	}

	return c.JSON(fiber.Map{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job id",
		})
	}

	job, err := h.jobRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	return c.JSON(job)
}

// HandleCreate handles POST /jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobRequest

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

	job := &models.Job{
		Title:       req.Title,
		Department:  req.Department,
		Location:    req.Location,
		Description: req.Description,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		Status:      models.JobStatusDraft,
	}
	if req.Status != "" {
		job.Status = models.JobStatus(req.Status)
	}

	if err := h.jobRepo.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleUpdate handles PUT /jobs/:id
func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job id",
		})
	}

	var req models.JobRequest
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

	job := &models.Job{
		ID:          id,
		Title:       req.Title,
		Department:  req.Department,
		Location:    req.Location,
		Description: req.Description,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
	}
	if req.Status != "" {
		job.Status = models.JobStatus(req.Status)
	}

	if err := h.jobRepo.Update(job); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Failed to update job",
		})
	}

	updated, err := h.jobRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	return c.JSON(updated)
}

// HandleDelete handles DELETE /jobs/:id
func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job id",
		})
	}

	if err := h.jobRepo.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
