package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/document"
)

func TestBackend(t *testing.T) {
	dir := t.TempDir()
	b, err := New(filepath.Join(dir, "data", "db.json"))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = b.Read(ctx)
	assert.Equal(t, document.ErrNoDocument, err)

	require.NoError(t, b.Write(ctx, []byte(`{"students":[]}`)))
	require.NoError(t, b.Write(ctx, []byte(`{"students":[{"id":1}]}`)))

	data, err := b.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"students":[{"id":1}]}`, string(data))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBackend_CanceledContext(t *testing.T) {
	b, err := New(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, b.Write(ctx, []byte(`{}`)))
	_, err = b.Read(context.Background())
	assert.Equal(t, document.ErrNoDocument, err)
}

func TestNew_EmptyPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
