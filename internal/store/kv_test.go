package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]KV {
	t.Helper()
	stores := map[string]KV{"memory": NewMemoryKV()}
	for _, driver := range []string{"sqlite3", "sqlite"} {
		kv, err := OpenSQLite(driver, ":memory:")
		require.NoError(t, err, driver)
		stores[driver] = kv
	}
	t.Cleanup(func() {
		for _, kv := range stores {
			kv.Close()
		}
	})
	return stores
}

func TestKVContract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(ctx, "absent")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, "k", "v1"))
			require.NoError(t, kv.Set(ctx, "k", "v2"))
			v, ok, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v2", v)

			require.NoError(t, kv.Delete(ctx, "k"))
			require.NoError(t, kv.Delete(ctx, "k"), "deleting twice is fine")
			_, ok, err = kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Close())
			assert.ErrorIs(t, kv.Set(ctx, "k", "v"), ErrClosed)
		})
	}
}

func TestOpenSQLiteRejectsUnknownDriver(t *testing.T) {
	_, err := OpenSQLite("postgres", ":memory:")
	assert.Error(t, err)
}

func TestSQLiteKVPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "shieldkit.db")

	kv, err := OpenSQLite("sqlite3", path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, RecordsKey, "[]"))
	require.NoError(t, kv.Close())

	reopened, err := OpenSQLite("sqlite3", path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, RecordsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
	assert.Equal(t, path, reopened.Path())
	assert.Equal(t, "sqlite3", reopened.Driver())
}
