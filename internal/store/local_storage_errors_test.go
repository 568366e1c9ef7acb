package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// newMockStorage wires the storage to a sqlmock database for error-path
// testing.
func newMockStorage(t *testing.T) (LocalStorage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	storage := NewSQLiteLocalStorage(&DB{DB: db, logger: logger.Nop()}, logger.Nop())
	return storage, mock
}

func TestPutValue_BeginTxError(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectBegin().WillReturnError(errors.New("disk I/O error"))

	err := storage.PutValue(context.Background(), testIdentity, testDataset, "k", strPtr("v"))

	assert.ErrorIs(t, err, ErrBeginningTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutValue_ExecError_RollsBack(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO records").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := storage.PutValue(context.Background(), testIdentity, testDataset, "k", strPtr("v"))

	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutRecords_CommitError(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO records").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	err := storage.PutRecords(context.Background(), testIdentity, testDataset, []models.Record{{Key: "k"}})

	assert.ErrorIs(t, err, ErrCommittingTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLastSyncCount_QueryError(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("SELECT last_sync_count").WillReturnError(errors.New("no such table"))

	_, err := storage.GetLastSyncCount(context.Background(), testIdentity, testDataset)

	assert.ErrorIs(t, err, ErrScanningRow)
}

func TestGetDatasets_QueryError(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("SELECT .+ FROM datasets").WillReturnError(errors.New("no such table"))

	_, err := storage.GetDatasets(context.Background(), testIdentity)

	assert.ErrorIs(t, err, ErrExecutingQuery)
}
