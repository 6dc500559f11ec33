package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupUserConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "codeengine")
	configPath := filepath.Join(configDir, "config.yaml")

	t.Run("no config exists", func(t *testing.T) {
		backupPath, err := BackupUserConfig()
		require.NoError(t, err)
		assert.Empty(t, backupPath)
	})

	t.Run("backup existing config", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(configDir, 0o755))
		testContent := "version: 1\nserver:\n  log_level: debug\n"
		require.NoError(t, os.WriteFile(configPath, []byte(testContent), 0o644))

		backupPath, err := BackupUserConfig()
		require.NoError(t, err)
		require.NotEmpty(t, backupPath)

		backupContent, err := os.ReadFile(backupPath)
		require.NoError(t, err)
		assert.Equal(t, testContent, string(backupContent))
		assert.True(t, filepath.IsAbs(backupPath))
	})
}

func TestListUserConfigBackups(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "codeengine")
	configPath := filepath.Join(configDir, "config.yaml")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	t.Run("no backups exist", func(t *testing.T) {
		backups, err := ListUserConfigBackups()
		require.NoError(t, err)
		assert.Empty(t, backups)
	})

	t.Run("list multiple backups", func(t *testing.T) {
		timestamps := []string{"20260101-100000", "20260101-110000", "20260101-120000"}
		for _, ts := range timestamps {
			backupName := filepath.Join(configDir, "config.yaml.bak."+ts)
			require.NoError(t, os.WriteFile(backupName, []byte("test"), 0o644))
			time.Sleep(10 * time.Millisecond)
		}

		backups, err := ListUserConfigBackups()
		require.NoError(t, err)
		require.Len(t, backups, 3)

		for i := 1; i < len(backups); i++ {
			infoPrev, _ := os.Stat(backups[i-1])
			infoCur, _ := os.Stat(backups[i])
			assert.False(t, infoPrev.ModTime().Before(infoCur.ModTime()), "backups should be sorted newest first")
		}
	})

	t.Run("cleanup old backups", func(t *testing.T) {
		require.NoError(t, os.WriteFile(configPath, []byte("version: 1\n"), 0o644))

		for i := 0; i < 4; i++ {
			_, err := BackupUserConfig()
			require.NoError(t, err)
			time.Sleep(10 * time.Millisecond)
		}

		backups, err := ListUserConfigBackups()
		require.NoError(t, err)
		assert.LessOrEqual(t, len(backups), MaxBackups)
	})
}

func TestRestoreUserConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "codeengine")
	configPath := filepath.Join(configDir, "config.yaml")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	original := "version: 1\nserver:\n  log_level: warn\n"
	require.NoError(t, os.WriteFile(configPath, []byte(original), 0o644))

	backupPath, err := BackupUserConfig()
	require.NoError(t, err)
	require.NotEmpty(t, backupPath)

	require.NoError(t, os.WriteFile(configPath, []byte("version: 1\nserver:\n  log_level: error\n"), 0o644))

	require.NoError(t, RestoreUserConfig(backupPath))

	restored, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(restored))
}

func TestMergeNewDefaults(t *testing.T) {
	t.Run("adds missing watch config fields", func(t *testing.T) {
		cfg := &Config{
			Version: 1,
			Cache:   CacheConfig{ResultSize: 256, ParsedQuerySize: 1024, DetailSize: 512},
			Shape:   ShapeConfig{TokenBudgetDefault: 4000, DetailTTLSeconds: 300, FragmentSize: 100, MaxFragments: 3, SummaryTopK: 10},
			Lifecycle: LifecycleConfig{
				MemoryLimitBytes: 4 * 1024 * 1024 * 1024, PressureHighRatio: 0.8, PressureCriticalRatio: 0.92, SampleIntervalSeconds: 5,
			},
			Index:  IndexConfig{RefreshIntervalMS: 1000, LockStalenessSeconds: 30},
			Ingest: IngestConfig{CircuitMaxFailures: 5, CircuitResetTimeoutSeconds: 60},
			Server: ServerConfig{Transport: "stdio", LogLevel: "info"},
			// Watch left zero-valued, as if written by an older version.
		}

		added := cfg.MergeNewDefaults()

		assert.Equal(t, 150, cfg.Watch.DebounceMS)
		assert.Equal(t, 5000, cfg.Watch.PollIntervalMS)
		assert.Contains(t, added, "watch.debounce_ms")
		assert.Contains(t, added, "watch.poll_interval_ms")
		assert.Contains(t, added, "watch.event_buffer_size")
	})

	t.Run("preserves existing values", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Watch.DebounceMS = 900

		added := cfg.MergeNewDefaults()

		assert.Equal(t, 900, cfg.Watch.DebounceMS)
		assert.NotContains(t, added, "watch.debounce_ms")
	})

	t.Run("returns empty for complete config", func(t *testing.T) {
		cfg := NewConfig()

		added := cfg.MergeNewDefaults()

		assert.Empty(t, added)
	})
}

func TestWriteYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := NewConfig()
	cfg.Server.LogLevel = "debug"

	require.NoError(t, cfg.WriteYAML(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, strings.Contains(string(data), "log_level: debug"))
}
