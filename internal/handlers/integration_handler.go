package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireos/internal/models"
	"hireos/internal/repositories"
)

type IntegrationHandler struct {
	integrationRepo repositories.IntegrationRepository
}

func NewIntegrationHandler(integrationRepo repositories.IntegrationRepository) *IntegrationHandler {
	return &IntegrationHandler{integrationRepo: integrationRepo}
}

// HandleList handles GET /integrations
func (h *IntegrationHandler) HandleList(c *fiber.Ctx) error {
	integrations, err := h.integrationRepo.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list integrations",
		})
	}

	return c.JSON(fiber.Map{
		"integrations": integrations,
		"total":        len(integrations),
	})
}

// HandleGet handles GET /integrations/:id
func (h *IntegrationHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid integration id",
		})
	}

	integration, err := h.integrationRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Integration not found",
		})
	}

	return c.JSON(integration)
}

// HandleCreate handles POST /integrations
func (h *IntegrationHandler) HandleCreate(c *fiber.Ctx) error {
	integration, status, err := h.buildIntegration(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.integrationRepo.Create(integration); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create integration",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(integration)
}

// HandleUpdate handles PUT /integrations/:id
func (h *IntegrationHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid integration id",
		})
	}

	integration, status, err := h.buildIntegration(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	integration.ID = id

	if err := h.integrationRepo.Update(integration); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Failed to update integration",
		})
	}

	updated, err := h.integrationRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Integration not found",
		})
	}

	return c.JSON(updated)
}

// HandleDelete handles DELETE /integrations/:id
func (h *IntegrationHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid integration id",
		})
	}

	if err := h.integrationRepo.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Integration not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// buildIntegration parses and validates the request body into an integration
// record. Credentials and the field map are stored as opaque JSON blobs.
func (h *IntegrationHandler) buildIntegration(c *fiber.Ctx) (*models.Integration, int, error) {
	var req models.IntegrationRequest

	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	if err := validate.Struct(req); err != nil {
		return nil, fiber.StatusBadRequest, err
	}

	credsJSON, err := json.Marshal(req.Credentials)
	if err != nil {
		return nil, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, "Invalid credentials payload")
	}
	fieldMapJSON, err := json.Marshal(req.FieldMap)
	if err != nil {
		return nil, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, "Invalid field map payload")
	}

	return &models.Integration{
		Name:            req.Name,
		Provider:        models.IntegrationProvider(req.Provider),
		CredentialsJSON: credsJSON,
		FieldMapJSON:    fieldMapJSON,
		AutoSync:        req.AutoSync,
	}, 0, nil
}
