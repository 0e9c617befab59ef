package artifactstore

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/artifacts/")

	url, err := store.Save(context.Background(), "leaf.jpg", "image/jpeg", []byte("jpeg bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/artifacts/"), url)
	require.True(t, strings.HasSuffix(url, "_leaf.jpg"), url)

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/artifacts/")))
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg bytes"), data)
}

func TestLocalStoreStripsPathFromFilename(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/artifacts")

	url, err := store.Save(context.Background(), "../../etc/passwd", "image/png", []byte("x"))
	require.NoError(t, err)
	require.NotContains(t, url, "..")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestInlineStoreSave(t *testing.T) {
	store := NewInlineStore()

	url, err := store.Save(context.Background(), "leaf.jpg", "image/jpeg", []byte{1, 2, 3})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"), url)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, raw)

	url, err = store.Save(context.Background(), "f", "", nil)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:application/octet-stream;base64,"), url)
}
