// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// LastSyncCountPendingDelete is the sentinel value of a dataset's
// LastSyncCount meaning "deleted locally, pending remote deletion".
const LastSyncCountPendingDelete int64 = -1

// DatasetMetadata describes a dataset without its record contents.
// The local store mirrors these attributes from the remote store; only
// LastSyncCount is maintained locally.
type DatasetMetadata struct {
	// DatasetName is the dataset name, matching [a-zA-Z0-9_.:-]{1,128}.
	DatasetName string `json:"datasetName"`

	// CreationDate is when the dataset was created on the remote store.
	CreationDate time.Time `json:"creationDate"`

	// LastModifiedDate is the remote timestamp of the last change.
	LastModifiedDate time.Time `json:"lastModifiedDate"`

	// LastModifiedBy identifies the device or identity behind the last change.
	LastModifiedBy string `json:"lastModifiedBy"`

	// StorageSizeBytes is the total record size reported by the remote store.
	StorageSizeBytes int64 `json:"dataStorage"`

	// RecordCount is the number of records reported by the remote store.
	RecordCount int64 `json:"numRecords"`

	// LastSyncCount is the dataset sync counter as of the last successful
	// synchronization, or LastSyncCountPendingDelete after a local delete.
	// It is local bookkeeping and never sent over the wire.
	LastSyncCount int64 `json:"-"`
}

// IsPendingDelete reports whether the dataset was deleted locally and the
// deletion has not yet been pushed to the remote store.
func (m DatasetMetadata) IsPendingDelete() bool {
	return m.LastSyncCount == LastSyncCountPendingDelete
}
