// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service exposes the public surface of the dataset sync engine: the
// [SyncManager] that owns the local and remote stores, per-dataset [Dataset]
// handles with offline CRUD, and the synchronization state machine steered
// by a [SyncCallback].
package service

import (
	"context"

	"github.com/MKhiriev/go-dataset-sync/models"
)

// Dataset is a per-dataset façade. All reads and writes are local and
// synchronous; Synchronize reconciles with the remote store on a worker
// goroutine.
type Dataset interface {
	// Put writes value under key locally and marks the record dirty.
	Put(ctx context.Context, key, value string) error

	// PutAll writes all values in one transaction with Put semantics.
	PutAll(ctx context.Context, values map[string]string) error

	// Get returns the value under key, or nil when the key is absent or
	// deleted.
	Get(ctx context.Context, key string) (*string, error)

	// GetAll returns all live key/value pairs; tombstones are skipped.
	GetAll(ctx context.Context) (map[string]string, error)

	// Remove deletes key locally. Deletion is a write, not a purge: the
	// record survives as a tombstone until the remote acknowledges it.
	Remove(ctx context.Context, key string) error

	// IsChanged reports whether the record under key carries the
	// local-dirty bit.
	IsChanged(ctx context.Context, key string) (bool, error)

	// Delete marks the whole dataset as deleted locally; the next
	// Synchronize pushes the deletion to the remote store.
	Delete(ctx context.Context) error

	// Resolve force-writes remote-authoritative records, typically the
	// output of [models.SyncConflict] resolution helpers.
	Resolve(ctx context.Context, remoteRecords []models.Record) error

	// GetAllRecords returns every record row, tombstones included.
	GetAllRecords(ctx context.Context) ([]models.Record, error)

	// GetTotalSizeInBytes returns the summed size of all records.
	GetTotalSizeInBytes(ctx context.Context) (int64, error)

	// GetSizeInBytes returns the size of the record under key, zero when
	// the record is absent.
	GetSizeInBytes(ctx context.Context, key string) (int64, error)

	// GetDatasetMetadata returns the locally cached dataset metadata.
	GetDatasetMetadata(ctx context.Context) (models.DatasetMetadata, error)

	// Synchronize runs the sync state machine on a worker goroutine, never
	// on the caller's. The callback steers the session and receives its
	// outcome; its boolean returns are the only cancellation channel.
	// Returns an error synchronously only when callback is nil.
	Synchronize(ctx context.Context, callback SyncCallback) error
}

// SyncCallback steers a synchronization session. It is invoked on the sync
// worker goroutine and is allowed to block; the boolean return values decide
// whether the session continues.
type SyncCallback interface {
	// OnSuccess reports a completed session together with the remote
	// records that were applied locally during it.
	OnSuccess(dataset Dataset, updatedRecords []models.Record)

	// OnFailure reports a terminated session.
	OnFailure(err error)

	// OnConflict is invoked with all record conflicts found during a pull.
	// Returning true retries the session (the application is expected to
	// have resolved the conflicts via Dataset.Resolve); returning false
	// ends the session without any further callback.
	OnConflict(dataset Dataset, conflicts []models.SyncConflict) bool

	// OnDatasetDeleted reports that the dataset was deleted remotely.
	// Returning true purges the local dataset and completes the session;
	// returning false fails it with ErrManualCancel.
	OnDatasetDeleted(dataset Dataset, datasetName string) bool

	// OnDatasetsMerged surfaces datasets the remote store merged into this
	// one. Returning true continues the session; returning false fails it
	// with ErrManualCancel. It is also invoked once at the start of a
	// session with the local "{name}.{suffix}" shadow datasets; there the
	// return value is ignored and the session continues either way.
	OnDatasetsMerged(dataset Dataset, datasetNames []string) bool
}

// SyncManager owns one local store and one remote store and hands out
// [Dataset] handles scoped to the current identity.
type SyncManager interface {
	// OpenOrCreateDataset validates datasetName, lazily creates the local
	// dataset, and returns its handle. Fails with an error matching
	// ErrIllegalState when the dataset is deleted locally but the deletion
	// has not yet been reconciled with the remote store.
	OpenOrCreateDataset(ctx context.Context, datasetName string) (Dataset, error)

	// ListDatasets returns the locally cached dataset metadata. It may lag
	// the remote store until RefreshDatasetMetadata is called.
	ListDatasets(ctx context.Context) ([]models.DatasetMetadata, error)

	// RefreshDatasetMetadata pulls the remote dataset list and stores its
	// metadata locally. Record contents are not touched.
	RefreshDatasetMetadata(ctx context.Context) error

	// WipeData clears the cached credentials and removes all local data of
	// all identities. Unsynchronized changes are lost.
	WipeData(ctx context.Context) error
}
