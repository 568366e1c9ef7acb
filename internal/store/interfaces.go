// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements the local persistence layer of the dataset sync
// engine: an ACID SQLite cache of datasets, records, and per-identity sync
// counters that stays fully usable while offline.
package store

import (
	"context"

	"github.com/MKhiriev/go-dataset-sync/models"
)

// LocalStorage is the contract of the local dataset cache. All mutating
// operations are atomic with respect to crashes (single transaction) and
// serialized under a per-database lock; reads never observe a partially
// applied transaction.
type LocalStorage interface {
	// CreateDataset lazily creates the dataset row for (identityID, name).
	// Creating an existing dataset is a no-op.
	CreateDataset(ctx context.Context, identityID, datasetName string) error

	// GetDatasets lists the locally cached metadata of all datasets owned by
	// identityID.
	GetDatasets(ctx context.Context, identityID string) ([]models.DatasetMetadata, error)

	// GetDatasetMetadata returns the locally cached metadata of one dataset.
	// Returns ErrDatasetNotFound when no such dataset is cached.
	GetDatasetMetadata(ctx context.Context, identityID, datasetName string) (models.DatasetMetadata, error)

	// UpdateDatasetMetadata merges remote dataset metadata into the local
	// cache. Record contents and the locally maintained last sync counters
	// are not touched.
	UpdateDatasetMetadata(ctx context.Context, identityID string, metadata []models.DatasetMetadata) error

	// DeleteDataset marks the dataset as deleted locally: its last sync
	// count becomes models.LastSyncCountPendingDelete and every record is
	// tombstoned. The rows stay until PurgeDataset.
	DeleteDataset(ctx context.Context, identityID, datasetName string) error

	// PurgeDataset physically removes the dataset's records and metadata.
	PurgeDataset(ctx context.Context, identityID, datasetName string) error

	// PutValue writes a single value locally. It sets the record's modified
	// bit, stamps the device modification time with the current wall clock,
	// and leaves the record's sync count unchanged. A nil value tombstones
	// the record instead of removing its row.
	PutValue(ctx context.Context, identityID, datasetName, key string, value *string) error

	// PutAllValues writes values in one transaction with PutValue semantics.
	PutAllValues(ctx context.Context, identityID, datasetName string, values map[string]string) error

	// GetValue returns the record's value, or nil when the record is absent
	// or tombstoned.
	GetValue(ctx context.Context, identityID, datasetName, key string) (*string, error)

	// GetRecord returns the full record row. Returns ErrRecordNotFound when
	// the row is absent.
	GetRecord(ctx context.Context, identityID, datasetName, key string) (models.Record, error)

	// GetRecords returns every record row of the dataset, tombstones included.
	GetRecords(ctx context.Context, identityID, datasetName string) ([]models.Record, error)

	// GetModifiedRecords returns the records carrying the local-dirty bit,
	// tombstones included.
	GetModifiedRecords(ctx context.Context, identityID, datasetName string) ([]models.Record, error)

	// PutRecords writes remote-authoritative rows exactly as supplied,
	// including their sync counts, and sets the modified and deleted bits
	// according to each supplied record. Rows not present in the batch are
	// not touched.
	PutRecords(ctx context.Context, identityID, datasetName string, records []models.Record) error

	// GetLastSyncCount returns the dataset's last sync count, zero when the
	// dataset is unknown locally.
	GetLastSyncCount(ctx context.Context, identityID, datasetName string) (int64, error)

	// UpdateLastSyncCount stores a new last sync count for the dataset.
	UpdateLastSyncCount(ctx context.Context, identityID, datasetName string, lastSyncCount int64) error

	// ChangeIdentityID relocates every row from oldIdentityID to
	// newIdentityID in one transaction. When the destination already has a
	// dataset of the same name the destination wins; the source dataset is
	// re-inserted under the new identity as a "{name}.{old id suffix}"
	// shadow so the sync protocol can surface the historical data.
	ChangeIdentityID(ctx context.Context, oldIdentityID, newIdentityID string) error

	// WipeData removes all rows of all identities.
	WipeData(ctx context.Context) error
}
