package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "uploads"), "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	obj, err := store.Put(ctx, "trips/abc/1.txt", strings.NewReader("delivery note"), "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/uploads/trips/abc/1.txt", obj.URL)
	assert.Equal(t, int64(len("delivery note")), obj.Size)
	assert.True(t, strings.HasPrefix(obj.ContentType, "text/plain"))

	raw, err := os.ReadFile(filepath.Join(dir, "uploads", "trips", "abc", "1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "delivery note", string(raw))

	require.NoError(t, store.Delete(ctx, "trips/abc/1.txt"))
	_, err = os.Stat(filepath.Join(dir, "uploads", "trips", "abc", "1.txt"))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is not an error.
	assert.NoError(t, store.Delete(ctx, "trips/abc/1.txt"))
}

func TestLocalStore_KeepsKeysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "uploads"), "/uploads")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "uploads", "escape.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(err))

	_, err = store.Put(context.Background(), "/", strings.NewReader("x"), "")
	assert.Error(t, err)
}
