package config

import (
	"errors"
	"time"
)

// Defaults applied by validation when the corresponding settings are absent
// from every configuration source.
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultSyncInterval   = 5 * time.Minute
)

var (
	// ErrInvalidStorageConfigs is returned when no local database DSN was
	// provided by any configuration source.
	ErrInvalidStorageConfigs = errors.New("invalid storage configs: database DSN is required")

	// ErrInvalidRemoteConfigs is returned when no remote sync service
	// address was provided by any configuration source.
	ErrInvalidRemoteConfigs = errors.New("invalid remote configs: address is required")
)
