// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-dataset-sync/internal/adapter"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
	"github.com/MKhiriev/go-dataset-sync/internal/validators"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// maxRetry is the number of retries a synchronization session performs
// before it gives up.
const maxRetry = 3

// Synchronize implements [Dataset]. The session never executes on the
// caller's goroutine; the callback is invoked on the worker goroutine and
// may block.
func (d *defaultDataset) Synchronize(ctx context.Context, callback SyncCallback) error {
	if callback == nil {
		return fmt.Errorf("%w: callback can't be nil", validators.ErrIllegalArgument)
	}

	go func() {
		d.syncMu.Lock()
		defer d.syncMu.Unlock()

		d.logger.Debug().
			Str("func", "defaultDataset.Synchronize").
			Str("dataset", d.datasetName).
			Msg("start to synchronize")

		mergedDatasets, err := d.getLocalMergedDatasets(ctx)
		if err != nil {
			callback.OnFailure(err)
			return
		}
		if len(mergedDatasets) > 0 {
			d.logger.Info().
				Str("func", "defaultDataset.Synchronize").
				Str("dataset", d.datasetName).
				Msg("detected locally merged datasets")
			callback.OnDatasetsMerged(d, mergedDatasets)
		}

		if d.synchronizeInternal(ctx, callback, maxRetry) {
			d.logger.Debug().
				Str("func", "defaultDataset.Synchronize").
				Str("dataset", d.datasetName).
				Msg("successfully synchronized")
		} else {
			d.logger.Debug().
				Str("func", "defaultDataset.Synchronize").
				Str("dataset", d.datasetName).
				Msg("failed to synchronize")
		}
	}()

	return nil
}

// synchronizeInternal runs one pass of the sync state machine. It re-enters
// itself with one fewer retry on recoverable interruptions (merged datasets,
// value conflicts, push conflicts) and reports whether the session ended
// successfully.
func (d *defaultDataset) synchronizeInternal(ctx context.Context, callback SyncCallback, retry int) bool {
	if retry < 0 {
		d.logger.Error().
			Str("func", "defaultDataset.synchronizeInternal").
			Str("dataset", d.datasetName).
			Msg("synchronize failed because it exceeds maximum retry")
		return false
	}

	identityID := d.identityID()
	lastSyncCount, err := d.local.GetLastSyncCount(ctx, identityID, d.datasetName)
	if err != nil {
		callback.OnFailure(err)
		return false
	}

	// if dataset is deleted locally, push the deletion to remote
	if lastSyncCount == models.LastSyncCountPendingDelete {
		if err = d.remote.DeleteDataset(ctx, d.datasetName); err != nil {
			callback.OnFailure(err)
			return false
		}
		if err = d.local.PurgeDataset(ctx, identityID, d.datasetName); err != nil {
			callback.OnFailure(err)
			return false
		}
		callback.OnSuccess(d, []models.Record{})
		return true
	}

	// get latest modified records from remote
	d.logger.Debug().
		Str("func", "defaultDataset.synchronizeInternal").
		Str("dataset", d.datasetName).
		Int64("last_sync_count", lastSyncCount).
		Msg("get latest modified records from remote")

	updates, err := d.remote.ListUpdates(ctx, d.datasetName, lastSyncCount)
	if err != nil {
		callback.OnFailure(err)
		return false
	}

	if len(updates.MergedDatasetNames) > 0 {
		if callback.OnDatasetsMerged(d, updates.MergedDatasetNames) {
			return d.synchronizeInternal(ctx, callback, retry-1)
		}
		callback.OnFailure(ErrManualCancel)
		return false
	}

	// a dataset that was synchronized before and is gone now, or that the
	// server reports deleted, was deleted remotely
	if (lastSyncCount != 0 && !updates.Exists) || updates.Deleted {
		if callback.OnDatasetDeleted(d, updates.DatasetName) {
			// remove both records and metadata
			if err = d.local.DeleteDataset(ctx, identityID, d.datasetName); err != nil {
				callback.OnFailure(err)
				return false
			}
			if err = d.local.PurgeDataset(ctx, identityID, d.datasetName); err != nil {
				callback.OnFailure(err)
				return false
			}
			callback.OnSuccess(d, []models.Record{})
			return true
		}
		callback.OnFailure(ErrManualCancel)
		return false
	}

	remoteRecords := updates.Records
	if len(remoteRecords) > 0 {
		// if conflict, prompt the application via the callback
		conflicts := make([]models.SyncConflict, 0)
		for _, remoteRecord := range remoteRecords {
			localRecord, getErr := d.local.GetRecord(ctx, identityID, d.datasetName, remoteRecord.Key)
			if errors.Is(getErr, store.ErrRecordNotFound) {
				continue
			}
			if getErr != nil {
				callback.OnFailure(getErr)
				return false
			}
			// only when local is changed and its value is different
			if localRecord.Modified && !localRecord.ValueEquals(remoteRecord) {
				conflicts = append(conflicts, models.NewSyncConflict(remoteRecord, localRecord))
			}
		}

		if len(conflicts) > 0 {
			d.logger.Info().
				Str("func", "defaultDataset.synchronizeInternal").
				Str("dataset", d.datasetName).
				Int("conflicts", len(conflicts)).
				Msg("records in conflict")
			if callback.OnConflict(d, conflicts) {
				return d.synchronizeInternal(ctx, callback, retry-1)
			}
			// the session ends with the callback's own disposition
			return false
		}

		// save remote changes to local
		d.logger.Info().
			Str("func", "defaultDataset.synchronizeInternal").
			Str("dataset", d.datasetName).
			Int("records", len(remoteRecords)).
			Msg("save records to local")
		if err = d.local.PutRecords(ctx, identityID, d.datasetName, remoteRecords); err != nil {
			callback.OnFailure(err)
			return false
		}
	}

	if updates.SyncCount != lastSyncCount {
		d.logger.Info().
			Str("func", "defaultDataset.synchronizeInternal").
			Str("dataset", d.datasetName).
			Int64("sync_count", updates.SyncCount).
			Msg("updated sync count")
		if err = d.local.UpdateLastSyncCount(ctx, identityID, d.datasetName, updates.SyncCount); err != nil {
			callback.OnFailure(err)
			return false
		}
		lastSyncCount = updates.SyncCount
	}

	// push local changes to remote
	localChanges, err := d.local.GetModifiedRecords(ctx, identityID, d.datasetName)
	if err != nil {
		callback.OnFailure(err)
		return false
	}

	if len(localChanges) > 0 {
		d.logger.Info().
			Str("func", "defaultDataset.synchronizeInternal").
			Str("dataset", d.datasetName).
			Int("records", len(localChanges)).
			Msg("push records to remote")

		patches := make([]models.RecordPatch, 0, len(localChanges))
		for _, record := range localChanges {
			patches = append(patches, models.PatchFromRecord(record))
		}

		result, putErr := d.remote.PutRecords(ctx, d.datasetName, patches, updates.SyncSessionToken)
		if errors.Is(putErr, adapter.ErrDataConflict) {
			d.logger.Info().
				Str("func", "defaultDataset.synchronizeInternal").
				Str("dataset", d.datasetName).
				Msg("conflicts detected when pushing changes to remote")
			return d.synchronizeInternal(ctx, callback, retry-1)
		}
		if putErr != nil {
			callback.OnFailure(putErr)
			return false
		}

		// update local metadata with server-assigned sync counts
		if err = d.local.PutRecords(ctx, identityID, d.datasetName, result); err != nil {
			callback.OnFailure(err)
			return false
		}

		// verify the server sync count increased exactly by one, aka no
		// other updates were made during this push; otherwise leave the
		// last sync count behind and let the next session pull the gap
		var newSyncCount int64
		for _, record := range result {
			if record.SyncCount > newSyncCount {
				newSyncCount = record.SyncCount
			}
		}
		if newSyncCount == lastSyncCount+1 {
			d.logger.Info().
				Str("func", "defaultDataset.synchronizeInternal").
				Str("dataset", d.datasetName).
				Int64("sync_count", newSyncCount).
				Msg("updated sync count")
			if err = d.local.UpdateLastSyncCount(ctx, identityID, d.datasetName, newSyncCount); err != nil {
				callback.OnFailure(err)
				return false
			}
		}
	}

	callback.OnSuccess(d, remoteRecords)
	return true
}
