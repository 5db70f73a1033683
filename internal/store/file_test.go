package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePersistence_RoundTrip(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, persistence.Save(ctx, "cart:client-1", []byte(`{"items":[]}`)))

	data, err := persistence.Load(ctx, "cart:client-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data))
}

func TestFilePersistence_LoadAbsentKey(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	data, err := persistence.Load(context.Background(), "cart:nobody")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFilePersistence_DeleteIsIdempotent(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, persistence.Save(ctx, "cart:client-1", []byte(`{}`)))
	require.NoError(t, persistence.Delete(ctx, "cart:client-1"))
	require.NoError(t, persistence.Delete(ctx, "cart:client-1"))

	data, err := persistence.Load(ctx, "cart:client-1")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFilePersistence_KeysCannotEscapeDirectory(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewFilePersistence(dir, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, persistence.Save(ctx, "../../etc/passwd", []byte("nope")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "______etc_passwd.json", entries[0].Name())

	data, err := persistence.Load(ctx, "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, []byte("nope"), data)
}

func TestFilePersistence_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewFilePersistence(dir, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, persistence.Save(context.Background(), "wishlist:client-1", []byte(`{}`)))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFilePersistence_CreatesStateDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")

	_, err := NewFilePersistence(dir, zerolog.Nop())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
