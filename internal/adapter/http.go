// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/identity"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/utils"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// Page sizes large enough to reduce the number of requests per sync session.
const (
	maxDatasetsPerPage = 64
	maxRecordsPerPage  = 1024
)

type httpRemoteStorage struct {
	client *utils.HTTPClient

	identityPoolID string
	binding        *identity.Binding

	logger *logger.Logger
}

// NewHTTPRemoteStorage constructs an HTTP/REST implementation of
// [RemoteStorage]. It normalises and validates the base URL from
// remoteCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if remoteCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPRemoteStorage(remoteCfg config.Remote, identityPoolID string, binding *identity.Binding, logger *logger.Logger) (RemoteStorage, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(remoteCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid remote storage address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(remoteCfg.RequestTimeout)

	return &httpRemoteStorage{
		client:         client,
		identityPoolID: identityPoolID,
		binding:        binding,
		logger:         logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// GetDatasets implements [RemoteStorage]. It walks the server-side
// pagination of GET .../datasets and returns one concatenated metadata list.
func (h *httpRemoteStorage) GetDatasets(ctx context.Context) ([]models.DatasetMetadata, error) {
	identityID, err := h.binding.RefreshedIdentityID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh identity: %w", ErrNetwork, err)
	}

	var datasets []models.DatasetMetadata
	nextToken := ""
	for {
		var result listDatasetsResponse

		req := h.identityRequest(ctx, identityID).
			SetQueryParam("maxResults", strconv.Itoa(maxDatasetsPerPage)).
			SetResult(&result)
		if nextToken != "" {
			req.SetQueryParam("nextToken", nextToken)
		}

		resp, err := req.Get("/identitypools/{identityPoolId}/identities/{identityId}/datasets")
		if err != nil {
			return nil, fmt.Errorf("%w: list datasets: %w", ErrNetwork, err)
		}
		if err = mapHTTPError(resp); err != nil {
			return nil, fmt.Errorf("failed to list dataset metadata: %w", err)
		}

		for _, dataset := range result.Datasets {
			datasets = append(datasets, dataset.toModel())
		}

		if result.NextToken == "" {
			return datasets, nil
		}
		nextToken = result.NextToken
	}
}

// GetDatasetMetadata implements [RemoteStorage].
func (h *httpRemoteStorage) GetDatasetMetadata(ctx context.Context, datasetName string) (models.DatasetMetadata, error) {
	identityID, err := h.binding.RefreshedIdentityID(ctx)
	if err != nil {
		return models.DatasetMetadata{}, fmt.Errorf("%w: refresh identity: %w", ErrNetwork, err)
	}

	var result describeDatasetResponse

	resp, err := h.identityRequest(ctx, identityID).
		SetPathParam("datasetName", datasetName).
		SetResult(&result).
		Get("/identitypools/{identityPoolId}/identities/{identityId}/datasets/{datasetName}")
	if err != nil {
		return models.DatasetMetadata{}, fmt.Errorf("%w: describe dataset: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DatasetMetadata{}, fmt.Errorf("failed to get metadata of dataset %s: %w", datasetName, err)
	}

	return result.Dataset.toModel(), nil
}

// ListUpdates implements [RemoteStorage]. It walks the server-side
// pagination of GET .../records and returns one concatenated delta.
func (h *httpRemoteStorage) ListUpdates(ctx context.Context, datasetName string, lastSyncCount int64) (models.DatasetUpdates, error) {
	identityID, err := h.binding.RefreshedIdentityID(ctx)
	if err != nil {
		return models.DatasetUpdates{}, fmt.Errorf("%w: refresh identity: %w", ErrNetwork, err)
	}

	updates := models.DatasetUpdates{
		DatasetName: datasetName,
		Exists:      true,
	}

	nextToken := ""
	for {
		var result listRecordsResponse

		req := h.identityRequest(ctx, identityID).
			SetPathParam("datasetName", datasetName).
			SetQueryParam("lastSyncCount", strconv.FormatInt(lastSyncCount, 10)).
			SetQueryParam("maxResults", strconv.Itoa(maxRecordsPerPage)).
			SetResult(&result)
		if nextToken != "" {
			req.SetQueryParam("nextToken", nextToken)
		}

		resp, err := req.Get("/identitypools/{identityPoolId}/identities/{identityId}/datasets/{datasetName}/records")
		if err != nil {
			return models.DatasetUpdates{}, fmt.Errorf("%w: list records: %w", ErrNetwork, err)
		}
		if err = mapHTTPError(resp); err != nil {
			return models.DatasetUpdates{}, fmt.Errorf("failed to list records in dataset %s: %w", datasetName, err)
		}

		for _, record := range result.Records {
			updates.Records = append(updates.Records, record.toModel())
		}
		updates.SyncCount = result.DatasetSyncCount
		updates.SyncSessionToken = result.SyncSessionToken
		updates.Exists = result.DatasetExists
		updates.Deleted = result.DatasetDeletedAfterRequestedSyncCount
		updates.MergedDatasetNames = append(updates.MergedDatasetNames, result.MergedDatasetNames...)

		if result.NextToken == "" {
			return updates, nil
		}
		nextToken = result.NextToken
	}
}

// PutRecords implements [RemoteStorage]. The batch is applied atomically by
// the server; [ErrDataConflict] (wrapped) reports that the dataset advanced
// past syncSessionToken.
func (h *httpRemoteStorage) PutRecords(ctx context.Context, datasetName string, patches []models.RecordPatch, syncSessionToken string) ([]models.Record, error) {
	identityID, err := h.binding.RefreshedIdentityID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh identity: %w", ErrNetwork, err)
	}

	request := updateRecordsRequest{
		SyncSessionToken: syncSessionToken,
		RecordPatches:    make([]recordPatchDTO, 0, len(patches)),
	}
	for _, patch := range patches {
		request.RecordPatches = append(request.RecordPatches, patchToDTO(patch))
	}

	var result updateRecordsResponse

	resp, err := h.identityRequest(ctx, identityID).
		SetPathParam("datasetName", datasetName).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&result).
		Post("/identitypools/{identityPoolId}/identities/{identityId}/datasets/{datasetName}/records")
	if err != nil {
		return nil, fmt.Errorf("%w: update records: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("failed to update records in dataset %s: %w", datasetName, err)
	}

	records := make([]models.Record, 0, len(result.Records))
	for _, record := range result.Records {
		records = append(records, record.toModel())
	}

	return records, nil
}

// DeleteDataset implements [RemoteStorage].
func (h *httpRemoteStorage) DeleteDataset(ctx context.Context, datasetName string) error {
	identityID, err := h.binding.RefreshedIdentityID(ctx)
	if err != nil {
		return fmt.Errorf("%w: refresh identity: %w", ErrNetwork, err)
	}

	resp, err := h.identityRequest(ctx, identityID).
		SetPathParam("datasetName", datasetName).
		Delete("/identitypools/{identityPoolId}/identities/{identityId}/datasets/{datasetName}")
	if err != nil {
		return fmt.Errorf("%w: delete dataset: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("failed to delete dataset %s: %w", datasetName, err)
	}

	return nil
}

// identityRequest builds a request scoped to the identity pool and identity,
// carrying the current session token.
func (h *httpRemoteStorage) identityRequest(ctx context.Context, identityID string) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetPathParam("identityPoolId", h.identityPoolID).
		SetPathParam("identityId", identityID)

	if token := h.binding.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// Wire shapes of the remote REST API. Dates travel as epoch milliseconds;
// absent server dates default to epoch zero.

type datasetDTO struct {
	DatasetName      string `json:"datasetName"`
	CreationDate     *int64 `json:"creationDate,omitempty"`
	LastModifiedDate *int64 `json:"lastModifiedDate,omitempty"`
	LastModifiedBy   string `json:"lastModifiedBy"`
	DataStorage      int64  `json:"dataStorage"`
	NumRecords       int64  `json:"numRecords"`
}

func (d datasetDTO) toModel() models.DatasetMetadata {
	return models.DatasetMetadata{
		DatasetName:      d.DatasetName,
		CreationDate:     millisOrEpoch(d.CreationDate),
		LastModifiedDate: millisOrEpoch(d.LastModifiedDate),
		LastModifiedBy:   d.LastModifiedBy,
		StorageSizeBytes: d.DataStorage,
		RecordCount:      d.NumRecords,
	}
}

type recordDTO struct {
	Key                    string  `json:"key"`
	Value                  *string `json:"value,omitempty"`
	SyncCount              int64   `json:"syncCount"`
	LastModifiedDate       *int64  `json:"lastModifiedDate,omitempty"`
	LastModifiedBy         string  `json:"lastModifiedBy"`
	DeviceLastModifiedDate *int64  `json:"deviceLastModifiedDate,omitempty"`
}

func (r recordDTO) toModel() models.Record {
	return models.Record{
		Key:                    r.Key,
		Value:                  r.Value,
		SyncCount:              r.SyncCount,
		LastModifiedDate:       millisOrEpoch(r.LastModifiedDate),
		LastModifiedBy:         r.LastModifiedBy,
		DeviceLastModifiedDate: millisOrEpoch(r.DeviceLastModifiedDate),
		Deleted:                r.Value == nil,
	}
}

type recordPatchDTO struct {
	Key                    string  `json:"key"`
	Value                  *string `json:"value,omitempty"`
	SyncCount              int64   `json:"syncCount"`
	Op                     string  `json:"op"`
	DeviceLastModifiedDate int64   `json:"deviceLastModifiedDate"`
}

func patchToDTO(patch models.RecordPatch) recordPatchDTO {
	return recordPatchDTO{
		Key:                    patch.Key,
		Value:                  patch.Value,
		SyncCount:              patch.SyncCount,
		Op:                     string(patch.Op),
		DeviceLastModifiedDate: patch.DeviceLastModifiedDate.UnixMilli(),
	}
}

type listDatasetsResponse struct {
	Datasets  []datasetDTO `json:"datasets"`
	NextToken string       `json:"nextToken"`
}

type describeDatasetResponse struct {
	Dataset datasetDTO `json:"dataset"`
}

type listRecordsResponse struct {
	Records                               []recordDTO `json:"records"`
	SyncSessionToken                      string      `json:"syncSessionToken"`
	DatasetSyncCount                      int64       `json:"datasetSyncCount"`
	DatasetExists                         bool        `json:"datasetExists"`
	DatasetDeletedAfterRequestedSyncCount bool        `json:"datasetDeletedAfterRequestedSyncCount"`
	MergedDatasetNames                    []string    `json:"mergedDatasetNames"`
	NextToken                             string      `json:"nextToken"`
}

type updateRecordsRequest struct {
	SyncSessionToken string           `json:"syncSessionToken"`
	RecordPatches    []recordPatchDTO `json:"recordPatches"`
}

type updateRecordsResponse struct {
	Records []recordDTO `json:"records"`
}

func millisOrEpoch(millis *int64) time.Time {
	if millis == nil {
		return time.UnixMilli(0)
	}
	return time.UnixMilli(*millis)
}
