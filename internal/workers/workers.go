package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
)

type datasetSyncJob struct {
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDatasetSyncJob creates a job that calls Dataset.Synchronize on a
// ticker. The job is idle until Start is called.
func NewDatasetSyncJob(log *logger.Logger) SyncJob {
	return &datasetSyncJob{logger: log}
}

// Start implements SyncJob. It stops any previously running job, then
// launches a background goroutine that synchronizes dataset every interval.
// If interval is zero or negative it defaults to 5 minutes. The goroutine
// exits when ctx is cancelled or Stop is called.
func (j *datasetSyncJob) Start(ctx context.Context, dataset service.Dataset, callback service.SyncCallback, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := dataset.Synchronize(jobCtx, callback); err != nil {
					j.logger.Err(err).
						Str("func", "datasetSyncJob.Start").
						Msg("failed to start synchronize session")
				}
			}
		}
	}()
}

// Stop implements SyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is
// not running (no-op in that case).
func (j *datasetSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
