// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
)

// countingDataset is a Dataset stub that counts Synchronize calls.
type countingDataset struct {
	service.Dataset
	syncCalls atomic.Int64
}

func (c *countingDataset) Synchronize(_ context.Context, _ service.SyncCallback) error {
	c.syncCalls.Add(1)
	return nil
}

func TestDatasetSyncJob_StartTicksAndStops(t *testing.T) {
	job := NewDatasetSyncJob(logger.Nop())
	dataset := &countingDataset{}

	job.Start(context.Background(), dataset, nil, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return dataset.syncCalls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	job.Stop()
	after := dataset.syncCalls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, dataset.syncCalls.Load(), "no ticks after Stop")
}

func TestDatasetSyncJob_StopWithoutStart(t *testing.T) {
	job := NewDatasetSyncJob(logger.Nop())

	// Should not panic or block when the job never ran
	job.Stop()
}

func TestDatasetSyncJob_RestartReplacesPreviousJob(t *testing.T) {
	job := NewDatasetSyncJob(logger.Nop())
	first := &countingDataset{}
	second := &countingDataset{}

	job.Start(context.Background(), first, nil, 10*time.Millisecond)
	job.Start(context.Background(), second, nil, 10*time.Millisecond)
	defer job.Stop()

	firstCount := first.syncCalls.Load()
	assert.Eventually(t, func() bool {
		return second.syncCalls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, firstCount, first.syncCalls.Load(), "first dataset stopped ticking")
}

func TestDatasetSyncJob_ContextCancelStopsJob(t *testing.T) {
	job := NewDatasetSyncJob(logger.Nop())
	dataset := &countingDataset{}

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, dataset, nil, 10*time.Millisecond)
	cancel()

	time.Sleep(30 * time.Millisecond)
	after := dataset.syncCalls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, dataset.syncCalls.Load(), "no ticks after ctx cancel")

	job.Stop()
}
