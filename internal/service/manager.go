// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-dataset-sync/internal/adapter"
	"github.com/MKhiriev/go-dataset-sync/internal/identity"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
	"github.com/MKhiriev/go-dataset-sync/internal/validators"
	"github.com/MKhiriev/go-dataset-sync/models"
)

type syncManager struct {
	local   store.LocalStorage
	remote  adapter.RemoteStorage
	binding *identity.Binding
	logger  *logger.Logger
}

// NewSyncManager constructs the [SyncManager] owning one local and one
// remote store. It subscribes to identity transitions so that rows cached
// under the previous (or unknown) identity are rekeyed to the new one the
// moment the credentials provider reports it.
func NewSyncManager(local store.LocalStorage, remote adapter.RemoteStorage, binding *identity.Binding, log *logger.Logger) SyncManager {
	m := &syncManager{
		local:   local,
		remote:  remote,
		binding: binding,
		logger:  log,
	}

	binding.RegisterIdentityChangedListener(func(oldIdentityID, newIdentityID string) {
		if oldIdentityID == "" {
			oldIdentityID = identity.UnknownIdentityID
		}
		if err := m.local.ChangeIdentityID(context.Background(), oldIdentityID, newIdentityID); err != nil {
			m.logger.Err(err).
				Str("func", "syncManager.identityChanged").
				Str("old_identity_id", oldIdentityID).
				Str("new_identity_id", newIdentityID).
				Msg("failed to rekey local data to new identity")
		}
	})

	return m
}

// OpenOrCreateDataset implements [SyncManager]. If the dataset doesn't exist
// locally, an empty one with the given name is created. A dataset that is
// marked as deleted but hasn't been deleted on remote yet fails with
// [ErrDatasetPendingDeletion]; observe the server state first via
// RefreshDatasetMetadata or a synchronize session.
func (m *syncManager) OpenOrCreateDataset(ctx context.Context, datasetName string) (Dataset, error) {
	if err := validators.ValidateDatasetName(datasetName); err != nil {
		return nil, err
	}

	identityID := m.binding.IdentityID()

	meta, err := m.local.GetDatasetMetadata(ctx, identityID, datasetName)
	if err != nil && !errors.Is(err, store.ErrDatasetNotFound) {
		return nil, fmt.Errorf("read dataset metadata: %w", err)
	}
	if err == nil && meta.IsPendingDelete() {
		return nil, fmt.Errorf("%w: %s", ErrDatasetPendingDeletion, datasetName)
	}

	if err = m.local.CreateDataset(ctx, identityID, datasetName); err != nil {
		return nil, fmt.Errorf("create dataset %s: %w", datasetName, err)
	}

	return newDefaultDataset(datasetName, m.binding, m.local, m.remote, m.logger), nil
}

// ListDatasets implements [SyncManager].
func (m *syncManager) ListDatasets(ctx context.Context) ([]models.DatasetMetadata, error) {
	return m.local.GetDatasets(ctx, m.binding.IdentityID())
}

// RefreshDatasetMetadata implements [SyncManager]. This is a network
// request; record contents aren't pulled down until each dataset is
// synchronized.
func (m *syncManager) RefreshDatasetMetadata(ctx context.Context) error {
	datasets, err := m.remote.GetDatasets(ctx)
	if err != nil {
		return fmt.Errorf("list remote datasets: %w", err)
	}

	if err = m.local.UpdateDatasetMetadata(ctx, m.binding.IdentityID(), datasets); err != nil {
		return fmt.Errorf("store dataset metadata: %w", err)
	}

	return nil
}

// WipeData implements [SyncManager]. Any data that hasn't been synchronized
// is lost; this is usually called when the user signs out.
func (m *syncManager) WipeData(ctx context.Context) error {
	m.binding.Clear()

	if err := m.local.WipeData(ctx); err != nil {
		return fmt.Errorf("wipe local data: %w", err)
	}

	m.logger.Info().
		Str("func", "syncManager.WipeData").
		Msg("all local data has been wiped")
	return nil
}
