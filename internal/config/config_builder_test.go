package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBuilder_MergePriority(t *testing.T) {
	// env source has the DSN, a later source has the remote address; the
	// merged config must carry both, and the earlier non-zero value wins.
	envCfg := &StructuredConfig{Storage: Storage{DB: DB{DSN: "from_env.db"}}}
	fileCfg := &StructuredConfig{
		Storage: Storage{DB: DB{DSN: "from_file.db"}},
		Remote:  Remote{HTTPAddress: "sync.example.com:443"},
	}

	b := newConfigBuilder()
	b.configs = append(b.configs, envCfg, fileCfg)

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, "from_env.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "sync.example.com:443", cfg.Remote.HTTPAddress)
}

func TestConfigBuilder_ValidationDefaults(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Storage: Storage{DB: DB{DSN: "cache.db"}},
		Remote:  Remote{HTTPAddress: "localhost:8080"},
	})

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, DefaultRequestTimeout, cfg.Remote.RequestTimeout)
	assert.Equal(t, DefaultSyncInterval, cfg.Workers.SyncInterval)
}

func TestConfigBuilder_MissingDSN(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Remote: Remote{HTTPAddress: "localhost:8080"},
	})

	_, err := b.build()

	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

func TestConfigBuilder_MissingRemoteAddress(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Storage: Storage{DB: DB{DSN: "cache.db"}},
	})

	_, err := b.build()

	assert.ErrorIs(t, err, ErrInvalidRemoteConfigs)
}

func TestNetAddress_SetAndString(t *testing.T) {
	var addr NetAddress

	require.NoError(t, addr.Set("localhost:8080"))
	assert.Equal(t, "localhost:8080", addr.String())

	assert.Error(t, addr.Set("no-port"))
	assert.Error(t, addr.Set("localhost:0"))
	assert.Error(t, addr.Set("not-an-ip:80"))
}

func TestDuration_UnmarshalString(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1h30m"`)))
	assert.Equal(t, 90*time.Minute, time.Duration(d))
}
