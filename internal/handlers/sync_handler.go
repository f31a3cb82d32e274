package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hireos/internal/models"
	"hireos/internal/repositories"
	"hireos/internal/services"
)

// SyncHandler drives reconciliation runs against one integration: dry-run
// previews, applied executes, outbound pushes, and the run history.
type SyncHandler struct {
	integrationRepo repositories.IntegrationRepository
	runRepo         repositories.SyncRunRepository
	planner         *services.SyncPlanner
	newSource       services.SourceFactory
}

func NewSyncHandler(
	integrationRepo repositories.IntegrationRepository,
	runRepo repositories.SyncRunRepository,
	planner *services.SyncPlanner,
	newSource services.SourceFactory,
) *SyncHandler {
	return &SyncHandler{
		integrationRepo: integrationRepo,
		runRepo:         runRepo,
		planner:         planner,
		newSource:       newSource,
	}
}

// HandlePreview handles POST /integrations/:id/sync/preview. Preview never
// writes candidates and is not recorded in the run history.
func (h *SyncHandler) HandlePreview(c *fiber.Ctx) error {
	_, source, mapping, status, err := h.resolve(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result := h.planner.Preview(c.Context(), source, mapping)

	return c.JSON(result)
}

// HandleExecute handles POST /integrations/:id/sync/execute
func (h *SyncHandler) HandleExecute(c *fiber.Ctx) error {
	integration, source, mapping, status, err := h.resolve(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var req models.SyncExecuteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request payload",
			})
		}
	}

	opts := services.ExecuteOptions{
		SelectedContactIDs: req.SelectedContactIDs,
		SkipNewCandidates:  req.SkipNewCandidates,
	}

	startedAt := time.Now()
	result := h.planner.Execute(c.Context(), source, mapping, opts)
	finishedAt := time.Now()

	h.record(integration.ID, models.SyncRunModeExecute, result, startedAt, finishedAt)

	return c.JSON(result)
}

// HandlePush handles POST /integrations/:id/sync/push
func (h *SyncHandler) HandlePush(c *fiber.Ctx) error {
	integration, source, mapping, status, err := h.resolve(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	startedAt := time.Now()
	result := h.planner.Push(c.Context(), source, mapping)
	finishedAt := time.Now()

	h.record(integration.ID, models.SyncRunModePush, result, startedAt, finishedAt)

	return c.JSON(result)
}

// HandleListRuns handles GET /integrations/:id/sync/runs
func (h *SyncHandler) HandleListRuns(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid integration id",
		})
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	runs, err := h.runRepo.ListByIntegration(id, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list sync runs",
		})
	}

	return c.JSON(fiber.Map{
		"runs":  runs,
		"total": len(runs),
	})
}

// resolve loads the integration and builds its provider adapter and field
// mapping.
func (h *SyncHandler) resolve(c *fiber.Ctx) (*models.Integration, services.ContactSource, services.FieldMapping, int, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, nil, nil, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, "Invalid integration id")
	}

	integration, err := h.integrationRepo.FindByID(id)
	if err != nil {
		return nil, nil, nil, fiber.StatusNotFound, fiber.NewError(fiber.StatusNotFound, "Integration not found")
	}

	source, err := h.newSource(integration)
	if err != nil {
		return nil, nil, nil, fiber.StatusUnprocessableEntity, err
	}

	mapping, err := integration.FieldMap()
	if err != nil {
		return nil, nil, nil, fiber.StatusUnprocessableEntity, err
	}

	return integration, source, services.FieldMapping(mapping), 0, nil
}

// record persists a run's audit entry and stamps the integration. A failed
// audit write never fails the sync response.
func (h *SyncHandler) record(
	integrationID uuid.UUID,
	mode models.SyncRunMode,
	result *services.SyncResult,
	startedAt, finishedAt time.Time,
) {
	run := services.BuildSyncRun(integrationID, mode, result, startedAt, finishedAt)
	if err := h.runRepo.Create(run); err != nil {
		return
	}
	if result.Success {
		h.integrationRepo.TouchLastSynced(integrationID, finishedAt)
	}
}
