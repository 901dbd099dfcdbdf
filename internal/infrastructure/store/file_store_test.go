package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	fs := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, fs.Set(ctx, "cartItems", []byte(`[{"id":"A"}]`)))
	require.NoError(t, fs.Set(ctx, "auth_token", []byte("tok")))

	// A second store on the same path sees the writes
	other := NewFileStore(path)
	value, found, err := other.Get(ctx, "cartItems")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"A"}]`, string(value))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_MissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "none.json"))

	_, found, err := fs.Get(context.Background(), "cartItems")

	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStore_Delete(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	ctx := context.Background()

	require.NoError(t, fs.Set(ctx, "auth_token", []byte("tok")))
	require.NoError(t, fs.Delete(ctx, "auth_token"))
	require.NoError(t, fs.Delete(ctx, "auth_token"))

	_, found, err := fs.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	fs := NewFileStore(path)
	ctx := context.Background()

	_, found, err := fs.Get(ctx, "cartItems")
	assert.Error(t, err)
	assert.False(t, found)

	// Writing replaces the unreadable document
	require.NoError(t, fs.Set(ctx, "cartItems", []byte(`[]`)))
	value, found, err := fs.Get(ctx, "cartItems")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(value))
}
