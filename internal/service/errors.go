package service

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalState marks an operation that is invalid in the engine's
	// current state.
	ErrIllegalState = errors.New("illegal state")

	// ErrManualCancel is surfaced through OnFailure when a control callback
	// returned false.
	ErrManualCancel = errors.New("manual cancel")
)

// ErrDatasetPendingDeletion is returned by OpenOrCreateDataset for a dataset
// that was deleted locally and whose deletion has not been pushed to the
// remote store yet; run RefreshDatasetMetadata or Synchronize first.
var ErrDatasetPendingDeletion = fmt.Errorf("%w: dataset is deleted locally and pending remote deletion", ErrIllegalState)
