// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncConflict is a pair of conflicting record versions discovered during
// synchronization: the record pulled from the remote store and the locally
// modified record with a different value.
type SyncConflict struct {
	// RemoteRecord is the version currently held by the remote store.
	RemoteRecord Record

	// LocalRecord is the locally modified version.
	LocalRecord Record
}

// NewSyncConflict pairs a remote and a local record of the same key.
func NewSyncConflict(remoteRecord, localRecord Record) SyncConflict {
	return SyncConflict{RemoteRecord: remoteRecord, LocalRecord: localRecord}
}

// ResolveWithRemoteRecord resolves the conflict by keeping the remote value.
func (c SyncConflict) ResolveWithRemoteRecord() Record {
	return c.resolve(c.RemoteRecord.Value)
}

// ResolveWithLocalRecord resolves the conflict by keeping the local value.
func (c SyncConflict) ResolveWithLocalRecord() Record {
	return c.resolve(c.LocalRecord.Value)
}

// ResolveWithValue resolves the conflict with an arbitrary value; nil
// resolves to a deletion.
func (c SyncConflict) ResolveWithValue(value *string) Record {
	return c.resolve(value)
}

// resolve builds the record to force-write via Dataset.Resolve. It carries
// the remote sync count so the resolution is based on the version the
// remote store reported in this session.
func (c SyncConflict) resolve(value *string) Record {
	return Record{
		Key:                    c.RemoteRecord.Key,
		Value:                  value,
		SyncCount:              c.RemoteRecord.SyncCount,
		LastModifiedDate:       c.RemoteRecord.LastModifiedDate,
		LastModifiedBy:         c.RemoteRecord.LastModifiedBy,
		DeviceLastModifiedDate: time.Now(),
		Modified:               false,
		Deleted:                value == nil,
	}
}
