// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// DatasetUpdates is the result of pulling the remote delta of a dataset
// since a known sync count.
type DatasetUpdates struct {
	// DatasetName is the dataset the delta belongs to.
	DatasetName string

	// Records are the records changed on the remote store since the
	// requested sync count. A record with a nil value is a tombstone.
	Records []Record

	// SyncCount is the dataset's current sync counter on the remote store.
	SyncCount int64

	// SyncSessionToken must be echoed back by the subsequent push; it is the
	// optimistic-concurrency fence for this session.
	SyncSessionToken string

	// Exists reports whether the dataset exists on the remote store. A fresh
	// dataset that was never pushed yields Exists=false together with a
	// requested sync count of zero; that combination means "nothing remote
	// yet", not deletion.
	Exists bool

	// Deleted reports that the dataset was deleted on the remote store after
	// the requested sync count.
	Deleted bool

	// MergedDatasetNames lists datasets the remote store has merged into
	// this one; the application is expected to drain and delete them.
	MergedDatasetNames []string
}
