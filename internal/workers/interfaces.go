// Package workers contains background jobs of the sync engine.
package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-dataset-sync/internal/service"
)

// SyncJob defines the contract for a background worker that periodically
// synchronizes one dataset.
type SyncJob interface {
	// Start launches the background sync goroutine. It synchronizes every
	// interval, defaulting to 5 minutes if interval is zero or negative.
	// Any previously running job is stopped before the new one begins.
	Start(ctx context.Context, dataset service.Dataset, callback service.SyncCallback, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
