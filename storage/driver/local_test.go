package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlist/config"
)

func newLocal(t *testing.T, path string) *LocalStorage {
	t.Helper()
	cfg := config.Default().Storage
	cfg.LocalPath = path
	s, err := NewLocalStorage(&cfg, nil)
	require.NoError(t, err)
	return s
}

func TestLocalStorage_AbsentKeyIsEmpty(t *testing.T) {
	s := newLocal(t, filepath.Join(t.TempDir(), "ls.json"))

	ids, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLocalStorage_PersistsUnderKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ls.json")
	s := newLocal(t, path)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "a"))
	raw, ok := s.GetItem(config.DefaultStorageKey)
	require.True(t, ok)
	assert.JSONEq(t, `["a"]`, raw)

	// 重复添加不产生重复项
	require.NoError(t, s.Add(ctx, "a"))
	require.NoError(t, s.Add(ctx, "b"))
	require.NoError(t, s.Remove(ctx, "a"))

	fresh := newLocal(t, path)
	ids, err := fresh.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

func TestLocalStorage_KeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ls.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0644))

	s := newLocal(t, path)
	require.NoError(t, s.Add(context.Background(), "x"))

	theme, ok := s.GetItem("theme")
	assert.True(t, ok)
	assert.Equal(t, "dark", theme)
}

func TestLocalStorage_MalformedDataIsEmpty(t *testing.T) {
	cases := map[string]string{
		"broken file":  `{not json`,
		"broken value": `{"shortlistedStudios":"[oops"}`,
		"wrong type":   `{"shortlistedStudios":"{\"a\":1}"}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ls.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			s := newLocal(t, path)
			ids, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, ids)

			// 写入后恢复为合法数据
			require.NoError(t, s.Add(context.Background(), "a"))
			ids, err = s.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, ids)
		})
	}
}

func TestLocalStorage_CanceledContext(t *testing.T) {
	s := newLocal(t, filepath.Join(t.TempDir(), "ls.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Add(ctx, "a"), context.Canceled)
	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
