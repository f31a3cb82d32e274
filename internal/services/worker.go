package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hireos/internal/models"
	"hireos/internal/repositories"
)

// SourceFactory builds the right provider adapter for an integration. It is
// injected so the engine stays credential- and provider-agnostic.
type SourceFactory func(integration *models.Integration) (ContactSource, error)

type SyncWorker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueSync(integrationID uuid.UUID)
}

type syncWorker struct {
	integrationRepo repositories.IntegrationRepository
	runRepo         repositories.SyncRunRepository
	planner         *SyncPlanner
	newSource       SourceFactory
	pollInterval    time.Duration
	syncQueue       chan uuid.UUID
	concurrency     int
	wg              sync.WaitGroup
	stopChan        chan struct{}
}

func NewSyncWorker(
	integrationRepo repositories.IntegrationRepository,
	runRepo repositories.SyncRunRepository,
	planner *SyncPlanner,
	newSource SourceFactory,
	concurrency int,
	pollInterval time.Duration,
) SyncWorker {
	return &syncWorker{
		integrationRepo: integrationRepo,
		runRepo:         runRepo,
		planner:         planner,
		newSource:       newSource,
		pollInterval:    pollInterval,
		syncQueue:       make(chan uuid.UUID, 100),
		concurrency:     concurrency,
		stopChan:        make(chan struct{}),
	}
}

// Start implements SyncWorker.
func (w *syncWorker) Start(ctx context.Context) {
	log.Printf("🚀 Starting sync worker with %d concurrent runners\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processSyncs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollAutoSync(ctx)

	log.Println("✅ Sync worker started successfully")
}

// Stop implements SyncWorker.
func (w *syncWorker) Stop() {
	log.Println("🛑 Stopping sync worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Sync worker stopped")
}

// EnqueueSync implements SyncWorker.
func (w *syncWorker) EnqueueSync(integrationID uuid.UUID) {
	select {
	case w.syncQueue <- integrationID:
		log.Printf("📥 Sync for integration %s enqueued\n", integrationID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue sync for %s\n", integrationID)
	}
}

func (w *syncWorker) processSyncs(ctx context.Context, runnerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Sync runner #%d stopped\n", runnerID)
			return
		case integrationID := <-w.syncQueue:
			log.Printf("👷 Runner #%d syncing integration %s\n", runnerID, integrationID)
			if err := w.runSync(ctx, integrationID); err != nil {
				log.Printf("❌ Runner #%d failed to sync %s: %v\n", runnerID, integrationID, err)
			} else {
				log.Printf("✅ Runner #%d completed sync for %s\n", runnerID, integrationID)
			}
		}
	}
}

func (w *syncWorker) pollAutoSync(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting auto-sync poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Auto-sync poller stopped")
			return
		case <-ticker.C:
			integrations, err := w.integrationRepo.ListAutoSync()
			if err != nil {
				log.Printf("⚠️  Failed to fetch auto-sync integrations: %v\n", err)
				continue
			}

			for _, integration := range integrations {
				w.EnqueueSync(integration.ID)
			}
		}
	}
}

func (w *syncWorker) runSync(ctx context.Context, integrationID uuid.UUID) error {
	integration, err := w.integrationRepo.FindByID(integrationID)
	if err != nil {
		return err
	}

	source, err := w.newSource(integration)
	if err != nil {
		return err
	}

	mapping, err := integration.FieldMap()
	if err != nil {
		return err
	}

	startedAt := time.Now()
	result := w.planner.Execute(ctx, source, FieldMapping(mapping), ExecuteOptions{})
	finishedAt := time.Now()

	run := BuildSyncRun(integration.ID, models.SyncRunModeExecute, result, startedAt, finishedAt)
	if err := w.runRepo.Create(run); err != nil {
		return err
	}

	return w.integrationRepo.TouchLastSynced(integration.ID, finishedAt)
}

// BuildSyncRun converts one run's SyncResult into its persisted audit record.
func BuildSyncRun(
	integrationID uuid.UUID,
	mode models.SyncRunMode,
	result *SyncResult,
	startedAt, finishedAt time.Time,
) *models.SyncRun {
	detailsJSON, _ := json.Marshal(result.Details)

	return &models.SyncRun{
		IntegrationID:         integrationID,
		Mode:                  mode,
		Success:               result.Success,
		TotalExternalContacts: result.TotalExternalContacts,
		TotalCandidates:       result.TotalCandidates,
		Matched:               result.Matched,
		Updated:               result.Updated,
		Created:               result.Created,
		Skipped:               result.Skipped,
		ErrorMessage:          strings.Join(result.Errors, "; "),
		DetailsJSON:           detailsJSON,
		DurationMs:            finishedAt.Sub(startedAt).Milliseconds(),
		StartedAt:             startedAt,
		FinishedAt:            finishedAt,
	}
}
