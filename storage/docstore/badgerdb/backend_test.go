package badgerstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/document"
	logsvc "github.com/trezcool/academia/services/logger"
)

func TestBackend(t *testing.T) {
	b, err := Open("", logsvc.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	ctx := context.Background()

	_, err = b.Read(ctx)
	assert.Equal(t, document.ErrNoDocument, err)

	require.NoError(t, b.Write(ctx, []byte(`{"grades":[]}`)))
	data, err := b.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"grades":[]}`, string(data))
}

func TestBackend_WithStore(t *testing.T) {
	b, err := Open("", logsvc.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	ctx := context.Background()

	store := document.NewStore(b, logsvc.NewNopLogger())
	_, err = store.Mutate(ctx, func(doc *document.Document) error {
		doc.Append(document.Tasks, document.Record{"id": "t1", "title": "Set exam"})
		return nil
	})
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Students, 3)
	assert.Len(t, doc.Tasks, 1)
}
