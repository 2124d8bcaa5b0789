package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mathnote/internal/storage"
)

// TestOpenInMemory verifies in-memory slot writes and reads.
func TestOpenInMemory(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	_, err = store.Get(ctx, storage.DefaultKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Put(ctx, storage.DefaultKey, []byte("value")))

	got, err := store.Get(ctx, storage.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

// TestPutOverwrites verifies the slot holds only the latest value.
func TestPutOverwrites(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "doc", []byte("first")))
	require.NoError(t, store.Put(ctx, "doc", []byte("second")))

	got, err := store.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

// TestOpenWithPath verifies values survive close and reopen.
func TestOpenWithPath(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "persistent-key", []byte("persistent-value")))
	require.NoError(t, store.Close())

	reopened, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "persistent-key")
	require.NoError(t, err)
	assert.Equal(t, []byte("persistent-value"), got)
}

// TestOpenRequiresPath verifies persistent mode rejects an empty path.
func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

// TestCancelledContext verifies operations honor a cancelled context.
func TestCancelledContext(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "k", []byte("v")), context.Canceled)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
