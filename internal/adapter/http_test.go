// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/identity"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// staticProvider is a fixed-credentials identity.Provider for adapter tests.
type staticProvider struct {
	id    string
	token string
}

func (p *staticProvider) IdentityID() string              { return p.id }
func (p *staticProvider) Token() string                   { return p.token }
func (p *staticProvider) Refresh(_ context.Context) error { return nil }
func (p *staticProvider) Clear()                          { p.id, p.token = "", "" }

// newTestRemote creates an httpRemoteStorage pointed at the test server.
func newTestRemote(t *testing.T, serverURL string) *httpRemoteStorage {
	t.Helper()

	binding := identity.NewBinding(&staticProvider{id: "eu-west-1:id-1", token: "session-token"}, logger.Nop())
	remoteCfg := config.Remote{HTTPAddress: serverURL, RequestTimeout: 5 * time.Second}

	r, err := NewHTTPRemoteStorage(remoteCfg, "eu-west-1:pool-1", binding, logger.Nop())
	require.NoError(t, err)
	return r.(*httpRemoteStorage)
}

func strPtr(s string) *string { return &s }

// ── GetDatasets ──────────────────────────────────────────────────────────────

func TestGetDatasets_Paginates(t *testing.T) {
	page := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/identitypools/eu-west-1:pool-1/identities/eu-west-1:id-1/datasets", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		assert.Equal(t, "64", r.URL.Query().Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		if page == 0 {
			page++
			assert.Empty(t, r.URL.Query().Get("nextToken"))
			_ = json.NewEncoder(w).Encode(listDatasetsResponse{
				Datasets:  []datasetDTO{{DatasetName: "alpha", NumRecords: 2}},
				NextToken: "page-2",
			})
			return
		}
		assert.Equal(t, "page-2", r.URL.Query().Get("nextToken"))
		_ = json.NewEncoder(w).Encode(listDatasetsResponse{
			Datasets: []datasetDTO{{DatasetName: "beta", DataStorage: 42}},
		})
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	datasets, err := r.GetDatasets(context.Background())

	require.NoError(t, err)
	require.Len(t, datasets, 2)
	assert.Equal(t, "alpha", datasets[0].DatasetName)
	assert.Equal(t, int64(2), datasets[0].RecordCount)
	assert.Equal(t, "beta", datasets[1].DatasetName)
	assert.Equal(t, int64(42), datasets[1].StorageSizeBytes)
}

func TestGetDatasets_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	_, err := r.GetDatasets(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteStorage)
}

// ── GetDatasetMetadata ───────────────────────────────────────────────────────

func TestGetDatasetMetadata_Success(t *testing.T) {
	created := time.Now().Add(-time.Hour).UnixMilli()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/identitypools/eu-west-1:pool-1/identities/eu-west-1:id-1/datasets/scores", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(describeDatasetResponse{Dataset: datasetDTO{
			DatasetName:  "scores",
			CreationDate: &created,
			NumRecords:   7,
		}})
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	meta, err := r.GetDatasetMetadata(context.Background(), "scores")

	require.NoError(t, err)
	assert.Equal(t, "scores", meta.DatasetName)
	assert.Equal(t, int64(7), meta.RecordCount)
	assert.Equal(t, time.UnixMilli(created), meta.CreationDate)
	// absent server date defaults to epoch zero
	assert.Equal(t, time.UnixMilli(0), meta.LastModifiedDate)
}

func TestGetDatasetMetadata_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such dataset"))
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	_, err := r.GetDatasetMetadata(context.Background(), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

// ── ListUpdates ──────────────────────────────────────────────────────────────

func TestListUpdates_FullDelta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("lastSyncCount"))
		assert.Equal(t, "1024", r.URL.Query().Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(listRecordsResponse{
			Records: []recordDTO{
				{Key: "color", Value: strPtr("red"), SyncCount: 2},
				{Key: "legacy", SyncCount: 3}, // tombstone: no value
			},
			SyncSessionToken:   "session-1",
			DatasetSyncCount:   3,
			DatasetExists:      true,
			MergedDatasetNames: []string{"scores.old-id"},
		})
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	updates, err := r.ListUpdates(context.Background(), "scores", 0)

	require.NoError(t, err)
	assert.Equal(t, "scores", updates.DatasetName)
	assert.Equal(t, int64(3), updates.SyncCount)
	assert.Equal(t, "session-1", updates.SyncSessionToken)
	assert.True(t, updates.Exists)
	assert.False(t, updates.Deleted)
	assert.Equal(t, []string{"scores.old-id"}, updates.MergedDatasetNames)

	require.Len(t, updates.Records, 2)
	assert.Equal(t, "red", *updates.Records[0].Value)
	assert.False(t, updates.Records[0].IsDeleted())
	assert.Nil(t, updates.Records[1].Value)
	assert.True(t, updates.Records[1].IsDeleted())
}

func TestListUpdates_Paginates(t *testing.T) {
	page := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if page == 0 {
			page++
			_ = json.NewEncoder(w).Encode(listRecordsResponse{
				Records:          []recordDTO{{Key: "a", Value: strPtr("1"), SyncCount: 1}},
				SyncSessionToken: "session-1",
				DatasetSyncCount: 2,
				DatasetExists:    true,
				NextToken:        "more",
			})
			return
		}
		assert.Equal(t, "more", r.URL.Query().Get("nextToken"))
		_ = json.NewEncoder(w).Encode(listRecordsResponse{
			Records:          []recordDTO{{Key: "b", Value: strPtr("2"), SyncCount: 2}},
			SyncSessionToken: "session-1",
			DatasetSyncCount: 2,
			DatasetExists:    true,
		})
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	updates, err := r.ListUpdates(context.Background(), "scores", 0)

	require.NoError(t, err)
	require.Len(t, updates.Records, 2)
	assert.Equal(t, "a", updates.Records[0].Key)
	assert.Equal(t, "b", updates.Records[1].Key)
	assert.Equal(t, int64(2), updates.SyncCount)
}

func TestListUpdates_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	r := newTestRemote(t, srv.URL)
	_, err := r.ListUpdates(context.Background(), "scores", 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

// ── PutRecords ───────────────────────────────────────────────────────────────

func TestPutRecords_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req updateRecordsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "session-1", req.SyncSessionToken)
		require.Len(t, req.RecordPatches, 2)
		assert.Equal(t, "replace", req.RecordPatches[0].Op)
		assert.Equal(t, "100", *req.RecordPatches[0].Value)
		assert.Equal(t, "remove", req.RecordPatches[1].Op)
		assert.Nil(t, req.RecordPatches[1].Value)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(updateRecordsResponse{Records: []recordDTO{
			{Key: "score", Value: strPtr("100"), SyncCount: 1},
		}})
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	patches := []models.RecordPatch{
		{Key: "score", Value: strPtr("100"), SyncCount: 0, Op: models.OperationReplace},
		{Key: "obsolete", SyncCount: 4, Op: models.OperationRemove},
	}

	records, err := r.PutRecords(context.Background(), "scores", patches, "session-1")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].SyncCount)
	assert.Equal(t, "100", *records[0].Value)
}

func TestPutRecords_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("dataset advanced"))
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	_, err := r.PutRecords(context.Background(), "scores", []models.RecordPatch{{Key: "k", Op: models.OperationRemove}}, "stale")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataConflict)
}

func TestPutRecords_LimitExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	_, err := r.PutRecords(context.Background(), "scores", nil, "session-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataLimitExceeded)
}

// ── DeleteDataset ────────────────────────────────────────────────────────────

func TestDeleteDataset_Success(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/identitypools/eu-west-1:pool-1/identities/eu-west-1:id-1/datasets/scores", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	err := r.DeleteDataset(context.Background(), "scores")

	require.NoError(t, err)
	assert.True(t, called)
}

func TestDeleteDataset_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := newTestRemote(t, srv.URL)
	err := r.DeleteDataset(context.Background(), "scores")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

// ── normalizeBaseURL ─────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare host:port", input: "localhost:8080", want: "http://localhost:8080"},
		{name: "full url", input: "https://sync.example.com/", want: "https://sync.example.com"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
