package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("SHORTLIST_STORAGE", "")
	t.Setenv("SHORTLIST_API_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, StorageTypeLocal, cfg.Storage.Type)
	assert.Equal(t, DefaultStorageKey, cfg.Storage.StorageKey)
	assert.Equal(t, DefaultBaseURL, cfg.Storage.Remote.BaseURL)
	assert.True(t, cfg.Storage.Remote.RefetchOnFilter)
}

func TestLoad_YAMLFillsDefaults(t *testing.T) {
	t.Setenv("SHORTLIST_STORAGE", "")
	t.Setenv("SHORTLIST_API_URL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "storage:\n  type: remote\n  remote:\n    baseURL: http://api.test/api\n    timeout: 3s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StorageTypeRemote, cfg.Storage.Type)
	assert.Equal(t, "http://api.test/api", cfg.Storage.Remote.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Storage.Remote.Timeout)
	assert.Equal(t, DefaultStorageKey, cfg.Storage.StorageKey)
	assert.NotEmpty(t, cfg.Storage.LocalPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHORTLIST_STORAGE", "REMOTE")
	t.Setenv("SHORTLIST_API_URL", "http://other.test/api/")
	t.Setenv("SHORTLIST_DSN", "postgres://u:p@db/shortlist")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, StorageTypeRemote, cfg.Storage.Type)
	assert.Equal(t, "http://other.test/api", cfg.Storage.Remote.BaseURL)
	assert.Equal(t, "postgres://u:p@db/shortlist", cfg.Storage.Postgres.DSN)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("SHORTLIST_STORAGE", "")
	t.Setenv("SHORTLIST_API_URL", "")

	for _, name := range []string{"config.json", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := Default()
			cfg.Storage.Type = StorageTypeSQLite
			cfg.Storage.SQLite.Path = "/tmp/x.db"

			require.NoError(t, Save(path, cfg))
			loaded, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, StorageTypeSQLite, loaded.Storage.Type)
			assert.Equal(t, "/tmp/x.db", loaded.Storage.SQLite.Path)
		})
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default().Storage
	assert.NoError(t, cfg.Validate())

	cfg.Type = "redis"
	assert.Error(t, cfg.Validate())
}

func TestRemoteTimeoutJSON(t *testing.T) {
	t.Setenv("SHORTLIST_STORAGE", "")
	t.Setenv("SHORTLIST_API_URL", "")
	dir := t.TempDir()

	path := filepath.Join(dir, "config.json")
	require.NoError(t, Save(path, Default()))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"timeout": "10s"`)

	cases := map[string]time.Duration{
		`"2m30s"`:    150 * time.Second,
		`"500ms"`:    500 * time.Millisecond,
		`3000000000`: 3 * time.Second,
		`null`:       10 * time.Second,
	}
	for value, want := range cases {
		t.Run(value, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(p,
				[]byte(`{"storage":{"type":"remote","remote":{"baseURL":"http://x/api","timeout":`+value+`,"refetchOnFilter":false}}}`), 0644))
			cfg, err := Load(p)
			require.NoError(t, err)
			assert.Equal(t, want, cfg.Storage.Remote.Timeout)
			assert.False(t, cfg.Storage.Remote.RefetchOnFilter)
			assert.Equal(t, "http://x/api", cfg.Storage.Remote.BaseURL)
		})
	}

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"storage":{"remote":{"timeout":"soon"}}}`), 0644))
	_, err = Load(bad)
	assert.Error(t, err)
}
