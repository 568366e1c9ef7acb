// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	createDataset = `
		INSERT INTO datasets (
			identity_id,
			name,
			creation_date,
			last_modified_date
		) VALUES ($1, $2, $3, $3)
		ON CONFLICT (identity_id, name) DO NOTHING;`

	upsertDatasetMetadata = `
		INSERT INTO datasets (
			identity_id,
			name,
			creation_date,
			last_modified_date,
			last_modified_by,
			storage_size_bytes,
			record_count,
			last_sync_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
		ON CONFLICT (identity_id, name) DO UPDATE SET
			creation_date      = excluded.creation_date,
			last_modified_date = excluded.last_modified_date,
			last_modified_by   = excluded.last_modified_by,
			storage_size_bytes = excluded.storage_size_bytes,
			record_count       = excluded.record_count;`

	touchDataset = `
		UPDATE datasets SET
			last_modified_date = $1
		WHERE identity_id = $2 AND name = $3;`

	markDatasetDeleted = `
		UPDATE datasets SET
			last_sync_count    = -1,
			last_modified_date = $1
		WHERE identity_id = $2 AND name = $3;`

	tombstoneDatasetRecords = `
		UPDATE records SET
			value                     = NULL,
			deleted                   = 1,
			modified                  = 1,
			device_last_modified_date = $1
		WHERE identity_id = $2 AND dataset_name = $3;`

	purgeDatasetRecords = `
		DELETE FROM records
		WHERE identity_id = $1 AND dataset_name = $2;`

	purgeDatasetMetadata = `
		DELETE FROM datasets
		WHERE identity_id = $1 AND name = $2;`

	putValue = `
		INSERT INTO records (
			identity_id,
			dataset_name,
			key,
			value,
			sync_count,
			device_last_modified_date,
			last_modified_by,
			modified,
			deleted
		) VALUES ($1, $2, $3, $4, 0, $5, $6, 1, $7)
		ON CONFLICT (identity_id, dataset_name, key) DO UPDATE SET
			value                     = excluded.value,
			device_last_modified_date = excluded.device_last_modified_date,
			last_modified_by          = excluded.last_modified_by,
			modified                  = 1,
			deleted                   = excluded.deleted;`

	putRecord = `
		INSERT INTO records (
			identity_id,
			dataset_name,
			key,
			value,
			sync_count,
			last_modified_date,
			device_last_modified_date,
			last_modified_by,
			modified,
			deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (identity_id, dataset_name, key) DO UPDATE SET
			value                     = excluded.value,
			sync_count                = excluded.sync_count,
			last_modified_date        = excluded.last_modified_date,
			device_last_modified_date = excluded.device_last_modified_date,
			last_modified_by          = excluded.last_modified_by,
			modified                  = excluded.modified,
			deleted                   = excluded.deleted;`

	getLastSyncCount = `
		SELECT last_sync_count
		FROM datasets
		WHERE identity_id = $1 AND name = $2;`

	updateLastSyncCount = `
		UPDATE datasets SET
			last_sync_count    = $1,
			last_modified_date = $2
		WHERE identity_id = $3 AND name = $4;`

	wipeRecords  = `DELETE FROM records;`
	wipeDatasets = `DELETE FROM datasets;`

	relocateDataset = `
		UPDATE datasets SET
			identity_id = $1,
			name        = $2
		WHERE identity_id = $3 AND name = $4;`

	relocateDatasetRecords = `
		UPDATE records SET
			identity_id  = $1,
			dataset_name = $2
		WHERE identity_id = $3 AND dataset_name = $4;`
)
