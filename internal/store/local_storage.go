// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/utils"
	"github.com/MKhiriev/go-dataset-sync/models"
)

type sqliteLocalStorage struct {
	*DB
	deviceID string
	logger   *logger.Logger

	// mu serializes mutating transactions; reads go through the connection
	// pool directly.
	mu sync.Mutex
}

// NewSQLiteLocalStorage constructs the SQLite-backed [LocalStorage]. The
// storage stamps local writes with a per-process device id used as the
// last_modified_by attribution until the remote store overwrites it.
func NewSQLiteLocalStorage(db *DB, log *logger.Logger) LocalStorage {
	return &sqliteLocalStorage{
		DB:       db,
		deviceID: utils.NewUUIDGenerator().Generate(),
		logger:   log,
	}
}

func (s *sqliteLocalStorage) CreateDataset(ctx context.Context, identityID, datasetName string) error {
	return s.inTx(ctx, "CreateDataset", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, createDataset, identityID, datasetName, nowMillis())
		return err
	})
}

func (s *sqliteLocalStorage) GetDatasets(ctx context.Context, identityID string) ([]models.DatasetMetadata, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select(datasetColumns...).
		From("datasets").
		Where(sq.Eq{"identity_id": identityID}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteLocalStorage.GetDatasets").
			Str("identity_id", identityID).
			Msg("failed to query datasets")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var datasets []models.DatasetMetadata
	for rows.Next() {
		meta, scanErr := scanDatasetMetadata(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		datasets = append(datasets, meta)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return datasets, nil
}

func (s *sqliteLocalStorage) GetDatasetMetadata(ctx context.Context, identityID, datasetName string) (models.DatasetMetadata, error) {
	query, args, err := sq.Select(datasetColumns...).
		From("datasets").
		Where(sq.Eq{"identity_id": identityID, "name": datasetName}).
		ToSql()
	if err != nil {
		return models.DatasetMetadata{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := s.DB.QueryRowContext(ctx, query, args...)
	meta, err := scanDatasetMetadata(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DatasetMetadata{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, datasetName)
	}
	if err != nil {
		return models.DatasetMetadata{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return meta, nil
}

func (s *sqliteLocalStorage) UpdateDatasetMetadata(ctx context.Context, identityID string, metadata []models.DatasetMetadata) error {
	return s.inTx(ctx, "UpdateDatasetMetadata", func(tx *sql.Tx) error {
		for _, meta := range metadata {
			_, err := tx.ExecContext(ctx, upsertDatasetMetadata,
				identityID,
				meta.DatasetName,
				meta.CreationDate.UnixMilli(),
				meta.LastModifiedDate.UnixMilli(),
				meta.LastModifiedBy,
				meta.StorageSizeBytes,
				meta.RecordCount,
			)
			if err != nil {
				return fmt.Errorf("upsert metadata of dataset %s: %w", meta.DatasetName, err)
			}
		}
		return nil
	})
}

func (s *sqliteLocalStorage) DeleteDataset(ctx context.Context, identityID, datasetName string) error {
	now := nowMillis()
	return s.inTx(ctx, "DeleteDataset", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, markDatasetDeleted, now, identityID, datasetName); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, tombstoneDatasetRecords, now, identityID, datasetName)
		return err
	})
}

func (s *sqliteLocalStorage) PurgeDataset(ctx context.Context, identityID, datasetName string) error {
	return s.inTx(ctx, "PurgeDataset", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, purgeDatasetRecords, identityID, datasetName); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, purgeDatasetMetadata, identityID, datasetName)
		return err
	})
}

func (s *sqliteLocalStorage) PutValue(ctx context.Context, identityID, datasetName, key string, value *string) error {
	now := nowMillis()
	return s.inTx(ctx, "PutValue", func(tx *sql.Tx) error {
		return s.putValueTx(ctx, tx, identityID, datasetName, key, value, now)
	})
}

func (s *sqliteLocalStorage) PutAllValues(ctx context.Context, identityID, datasetName string, values map[string]string) error {
	now := nowMillis()
	return s.inTx(ctx, "PutAllValues", func(tx *sql.Tx) error {
		for key, value := range values {
			v := value
			if err := s.putValueTx(ctx, tx, identityID, datasetName, key, &v, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// putValueTx performs one local write inside tx: record upsert with the
// modified bit set and the dataset's last_modified_date touched.
func (s *sqliteLocalStorage) putValueTx(ctx context.Context, tx *sql.Tx, identityID, datasetName, key string, value *string, now int64) error {
	deleted := 0
	if value == nil {
		deleted = 1
	}

	if _, err := tx.ExecContext(ctx, putValue,
		identityID,
		datasetName,
		key,
		nullableString(value),
		now,
		s.deviceID,
		deleted,
	); err != nil {
		return fmt.Errorf("put value for key %s: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx, touchDataset, now, identityID, datasetName); err != nil {
		return fmt.Errorf("touch dataset %s: %w", datasetName, err)
	}

	return nil
}

func (s *sqliteLocalStorage) GetValue(ctx context.Context, identityID, datasetName, key string) (*string, error) {
	record, err := s.GetRecord(ctx, identityID, datasetName, key)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if record.IsDeleted() {
		return nil, nil
	}
	return record.Value, nil
}

func (s *sqliteLocalStorage) GetRecord(ctx context.Context, identityID, datasetName, key string) (models.Record, error) {
	query, args, err := sq.Select(recordColumns...).
		From("records").
		Where(sq.Eq{"identity_id": identityID, "dataset_name": datasetName, "key": key}).
		ToSql()
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := s.DB.QueryRowContext(ctx, query, args...)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, key)
	}
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return record, nil
}

func (s *sqliteLocalStorage) GetRecords(ctx context.Context, identityID, datasetName string) ([]models.Record, error) {
	return s.queryRecords(ctx, sq.Eq{"identity_id": identityID, "dataset_name": datasetName})
}

func (s *sqliteLocalStorage) GetModifiedRecords(ctx context.Context, identityID, datasetName string) ([]models.Record, error) {
	return s.queryRecords(ctx, sq.Eq{"identity_id": identityID, "dataset_name": datasetName, "modified": 1})
}

func (s *sqliteLocalStorage) queryRecords(ctx context.Context, where sq.Eq) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select(recordColumns...).
		From("records").
		Where(where).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sqliteLocalStorage.queryRecords").
			Msg("failed to query records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (s *sqliteLocalStorage) PutRecords(ctx context.Context, identityID, datasetName string, records []models.Record) error {
	return s.inTx(ctx, "PutRecords", func(tx *sql.Tx) error {
		for _, record := range records {
			deleted := 0
			if record.IsDeleted() {
				deleted = 1
			}
			modified := 0
			if record.Modified {
				modified = 1
			}

			_, err := tx.ExecContext(ctx, putRecord,
				identityID,
				datasetName,
				record.Key,
				nullableString(record.Value),
				record.SyncCount,
				record.LastModifiedDate.UnixMilli(),
				record.DeviceLastModifiedDate.UnixMilli(),
				record.LastModifiedBy,
				modified,
				deleted,
			)
			if err != nil {
				return fmt.Errorf("put record %s: %w", record.Key, err)
			}
		}
		return nil
	})
}

func (s *sqliteLocalStorage) GetLastSyncCount(ctx context.Context, identityID, datasetName string) (int64, error) {
	var lastSyncCount int64
	err := s.DB.QueryRowContext(ctx, getLastSyncCount, identityID, datasetName).Scan(&lastSyncCount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return lastSyncCount, nil
}

func (s *sqliteLocalStorage) UpdateLastSyncCount(ctx context.Context, identityID, datasetName string, lastSyncCount int64) error {
	return s.inTx(ctx, "UpdateLastSyncCount", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, updateLastSyncCount, lastSyncCount, nowMillis(), identityID, datasetName)
		return err
	})
}

func (s *sqliteLocalStorage) ChangeIdentityID(ctx context.Context, oldIdentityID, newIdentityID string) error {
	if oldIdentityID == newIdentityID {
		return nil
	}

	return s.inTx(ctx, "ChangeIdentityID", func(tx *sql.Tx) error {
		destNames, err := datasetNamesTx(ctx, tx, newIdentityID)
		if err != nil {
			return err
		}
		srcNames, err := datasetNamesTx(ctx, tx, oldIdentityID)
		if err != nil {
			return err
		}

		suffix := identityIDSuffix(oldIdentityID)
		for name := range srcNames {
			targetName := name
			if _, taken := destNames[name]; taken {
				// destination wins; source survives as a merged-dataset shadow
				targetName = name + "." + suffix
			}

			if _, err = tx.ExecContext(ctx, relocateDataset, newIdentityID, targetName, oldIdentityID, name); err != nil {
				return fmt.Errorf("relocate dataset %s: %w", name, err)
			}
			if _, err = tx.ExecContext(ctx, relocateDatasetRecords, newIdentityID, targetName, oldIdentityID, name); err != nil {
				return fmt.Errorf("relocate records of dataset %s: %w", name, err)
			}
		}
		return nil
	})
}

func (s *sqliteLocalStorage) WipeData(ctx context.Context) error {
	return s.inTx(ctx, "WipeData", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, wipeRecords); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, wipeDatasets)
		return err
	})
}

// inTx runs fn inside a single transaction under the storage lock.
func (s *sqliteLocalStorage) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteLocalStorage."+op).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(tx); err != nil {
		s.logger.Err(err).Str("func", "sqliteLocalStorage."+op).Msg("transaction failed")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return nil
}

var datasetColumns = []string{
	"name",
	"creation_date",
	"last_modified_date",
	"last_modified_by",
	"storage_size_bytes",
	"record_count",
	"last_sync_count",
}

var recordColumns = []string{
	"key",
	"value",
	"sync_count",
	"last_modified_date",
	"device_last_modified_date",
	"last_modified_by",
	"modified",
	"deleted",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDatasetMetadata(row rowScanner) (models.DatasetMetadata, error) {
	var meta models.DatasetMetadata
	var creation, lastModified int64

	err := row.Scan(
		&meta.DatasetName,
		&creation,
		&lastModified,
		&meta.LastModifiedBy,
		&meta.StorageSizeBytes,
		&meta.RecordCount,
		&meta.LastSyncCount,
	)
	if err != nil {
		return models.DatasetMetadata{}, err
	}

	meta.CreationDate = time.UnixMilli(creation)
	meta.LastModifiedDate = time.UnixMilli(lastModified)
	return meta, nil
}

func scanRecord(row rowScanner) (models.Record, error) {
	var record models.Record
	var value sql.NullString
	var lastModified, deviceLastModified int64
	var modified, deleted int

	err := row.Scan(
		&record.Key,
		&value,
		&record.SyncCount,
		&lastModified,
		&deviceLastModified,
		&record.LastModifiedBy,
		&modified,
		&deleted,
	)
	if err != nil {
		return models.Record{}, err
	}

	if value.Valid && deleted == 0 {
		v := value.String
		record.Value = &v
	}
	record.LastModifiedDate = time.UnixMilli(lastModified)
	record.DeviceLastModifiedDate = time.UnixMilli(deviceLastModified)
	record.Modified = modified == 1
	record.Deleted = deleted == 1

	return record, nil
}

func datasetNamesTx(ctx context.Context, tx *sql.Tx, identityID string) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM datasets WHERE identity_id = $1;`, identityID)
	if err != nil {
		return nil, fmt.Errorf("query dataset names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan dataset name: %w", err)
		}
		names[name] = struct{}{}
	}

	return names, rows.Err()
}

// identityIDSuffix derives the shadow-name suffix from an identity id: the
// portion after the last ':' (identity ids are "<pool>:<guid>" shaped), or
// the whole id when it has no separator.
func identityIDSuffix(identityID string) string {
	if idx := strings.LastIndex(identityID, ":"); idx >= 0 && idx < len(identityID)-1 {
		return identityID[idx+1:]
	}
	return identityID
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
