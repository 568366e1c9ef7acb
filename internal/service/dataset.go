// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/go-dataset-sync/internal/adapter"
	"github.com/MKhiriev/go-dataset-sync/internal/identity"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
	"github.com/MKhiriev/go-dataset-sync/internal/validators"
	"github.com/MKhiriev/go-dataset-sync/models"
)

type defaultDataset struct {
	datasetName string

	binding *identity.Binding
	local   store.LocalStorage
	remote  adapter.RemoteStorage
	logger  *logger.Logger

	// syncMu serializes synchronization sessions of this handle. Local CRUD
	// is not gated by it and may run while a session is in flight.
	syncMu sync.Mutex
}

func newDefaultDataset(datasetName string, binding *identity.Binding, local store.LocalStorage, remote adapter.RemoteStorage, log *logger.Logger) *defaultDataset {
	return &defaultDataset{
		datasetName: datasetName,
		binding:     binding,
		local:       local,
		remote:      remote,
		logger:      log,
	}
}

func (d *defaultDataset) Put(ctx context.Context, key, value string) error {
	if err := validators.ValidateRecordKey(key); err != nil {
		return err
	}
	return d.local.PutValue(ctx, d.identityID(), d.datasetName, key, &value)
}

func (d *defaultDataset) PutAll(ctx context.Context, values map[string]string) error {
	for key := range values {
		if err := validators.ValidateRecordKey(key); err != nil {
			return err
		}
	}
	return d.local.PutAllValues(ctx, d.identityID(), d.datasetName, values)
}

func (d *defaultDataset) Get(ctx context.Context, key string) (*string, error) {
	if err := validators.ValidateRecordKey(key); err != nil {
		return nil, err
	}
	return d.local.GetValue(ctx, d.identityID(), d.datasetName, key)
}

func (d *defaultDataset) GetAll(ctx context.Context) (map[string]string, error) {
	records, err := d.local.GetRecords(ctx, d.identityID(), d.datasetName)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(records))
	for _, record := range records {
		if record.IsDeleted() {
			continue
		}
		values[record.Key] = *record.Value
	}
	return values, nil
}

// Remove is a write, not a purge: the record row survives as a tombstone so
// the pending delete can be pushed.
func (d *defaultDataset) Remove(ctx context.Context, key string) error {
	if err := validators.ValidateRecordKey(key); err != nil {
		return err
	}
	return d.local.PutValue(ctx, d.identityID(), d.datasetName, key, nil)
}

func (d *defaultDataset) IsChanged(ctx context.Context, key string) (bool, error) {
	if err := validators.ValidateRecordKey(key); err != nil {
		return false, err
	}

	record, err := d.local.GetRecord(ctx, d.identityID(), d.datasetName, key)
	if errors.Is(err, store.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return record.Modified, nil
}

func (d *defaultDataset) Delete(ctx context.Context) error {
	return d.local.DeleteDataset(ctx, d.identityID(), d.datasetName)
}

func (d *defaultDataset) Resolve(ctx context.Context, remoteRecords []models.Record) error {
	return d.local.PutRecords(ctx, d.identityID(), d.datasetName, remoteRecords)
}

func (d *defaultDataset) GetAllRecords(ctx context.Context) ([]models.Record, error) {
	return d.local.GetRecords(ctx, d.identityID(), d.datasetName)
}

func (d *defaultDataset) GetTotalSizeInBytes(ctx context.Context) (int64, error) {
	records, err := d.local.GetRecords(ctx, d.identityID(), d.datasetName)
	if err != nil {
		return 0, err
	}

	var size int64
	for _, record := range records {
		size += record.Size()
	}
	return size, nil
}

func (d *defaultDataset) GetSizeInBytes(ctx context.Context, key string) (int64, error) {
	if err := validators.ValidateRecordKey(key); err != nil {
		return 0, err
	}

	record, err := d.local.GetRecord(ctx, d.identityID(), d.datasetName, key)
	if errors.Is(err, store.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.Size(), nil
}

func (d *defaultDataset) GetDatasetMetadata(ctx context.Context) (models.DatasetMetadata, error) {
	return d.local.GetDatasetMetadata(ctx, d.identityID(), d.datasetName)
}

func (d *defaultDataset) identityID() string {
	return d.binding.IdentityID()
}

// getLocalMergedDatasets lists local datasets that are marked as merged into
// this one ("{name}.{suffix}" shadows) but haven't been processed.
func (d *defaultDataset) getLocalMergedDatasets(ctx context.Context) ([]string, error) {
	datasets, err := d.local.GetDatasets(ctx, d.identityID())
	if err != nil {
		return nil, fmt.Errorf("list local datasets: %w", err)
	}

	var mergedNames []string
	prefix := d.datasetName + "."
	for _, dataset := range datasets {
		if strings.HasPrefix(dataset.DatasetName, prefix) {
			mergedNames = append(mergedNames, dataset.DatasetName)
		}
	}
	return mergedNames, nil
}
