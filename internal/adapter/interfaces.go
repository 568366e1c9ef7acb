// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating
// with the remote dataset store.
//
// The primary abstraction is [RemoteStorage], which decouples the sync
// engine from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteStorage]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrDataConflict] for 409, [ErrDatasetNotFound] for
// 404).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-dataset-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_storage_mock.go -package=mock

// RemoteStorage defines transport-agnostic communication with the remote
// dataset store. Implementations are responsible for serialisation,
// pagination, session-token header management, and mapping transport-level
// errors to the sentinel values defined in this package.
//
// Every call refreshes the identity id through the identity binding before
// the request is built; when the id changes mid-call the in-flight call
// completes with the id it started with and the new id is used on the next
// call.
type RemoteStorage interface {
	// GetDatasets lists the metadata of every dataset owned by the current
	// identity. The server paginates; callers see one concatenated list.
	GetDatasets(ctx context.Context) ([]models.DatasetMetadata, error)

	// GetDatasetMetadata describes a single dataset. Returns
	// [ErrDatasetNotFound] (wrapped) when the dataset is absent remotely.
	GetDatasetMetadata(ctx context.Context, datasetName string) (models.DatasetMetadata, error)

	// ListUpdates pulls the dataset delta since lastSyncCount. Passing zero
	// retrieves the full record set. Records with absent values are
	// tombstones. The server paginates; callers see one concatenated delta.
	ListUpdates(ctx context.Context, datasetName string, lastSyncCount int64) (models.DatasetUpdates, error)

	// PutRecords pushes a batch of record patches under the optimistic
	// concurrency fence of syncSessionToken. The server applies the batch
	// atomically and returns the resulting records with server-assigned
	// sync counts; [ErrDataConflict] (wrapped) is returned when the server
	// advanced since the token was issued.
	PutRecords(ctx context.Context, datasetName string, patches []models.RecordPatch, syncSessionToken string) ([]models.Record, error)

	// DeleteDataset deletes the dataset remotely.
	DeleteDataset(ctx context.Context, datasetName string) error
}
