package inmemstore

import (
	"context"
	"sync"

	"github.com/trezcool/academia/core/document"
)

// Backend keeps the serialized document in process memory.
type Backend struct {
	mu   sync.RWMutex
	data []byte
}

var _ document.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string { return "memory" }

func (b *Backend) Read(_ context.Context) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return nil, document.ErrNoDocument
	}
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return data, nil
}

func (b *Backend) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	b.mu.Lock()
	b.data = buf
	b.mu.Unlock()
	return nil
}

// Len returns the number of bytes currently held, 0 when empty.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}
