package adapter

import "errors"

// Sentinel errors of the remote error taxonomy. mapHTTPError translates
// HTTP responses into these values; callers match with [errors.Is].
var (
	// ErrNetwork marks a transport or I/O failure. Transient; callers may
	// retry the whole sync session.
	ErrNetwork = errors.New("network error")

	// ErrDatasetNotFound is returned when the server reports the dataset
	// does not exist.
	ErrDatasetNotFound = errors.New("dataset not found on remote storage")

	// ErrDataConflict is returned when a push is rejected because the
	// server advanced past the caller's sync session token.
	ErrDataConflict = errors.New("data conflict on remote storage")

	// ErrDataLimitExceeded is returned when a per-user or per-dataset quota
	// is exceeded.
	ErrDataLimitExceeded = errors.New("data limit exceeded on remote storage")

	// ErrRemoteStorage covers every other remote failure.
	ErrRemoteStorage = errors.New("remote storage error")
)
