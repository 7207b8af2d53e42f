package filestore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/document"
)

// Backend persists the document as a JSON file.
// Writes go to a temp file in the same directory, are synced, then renamed into place.
type Backend struct {
	path string
}

var _ document.Backend = (*Backend)(nil)

func New(path string) (*Backend, error) {
	if path == "" {
		return nil, errors.New("file store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating document directory")
	}
	return &Backend{path: path}, nil
}

func (b *Backend) Name() string { return "file" }

func (b *Backend) Path() string { return b.path }

func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, document.ErrNoDocument
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", b.path)
	}
	return data, nil
}

func (b *Backend) Write(ctx context.Context, data []byte) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmp.Name(), b.path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}
