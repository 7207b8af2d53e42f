// Package docstore opens the document.Backend selected by configuration.
package docstore

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
	badgerstore "github.com/trezcool/academia/storage/docstore/badgerdb"
	filestore "github.com/trezcool/academia/storage/docstore/file"
	inmemstore "github.com/trezcool/academia/storage/docstore/inmem"
	pgstore "github.com/trezcool/academia/storage/docstore/postgres"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the configured backend and a closer releasing its resources.
func Open(ctx context.Context, conf *core.Config, logger core.Logger) (document.Backend, io.Closer, error) {
	switch conf.Storage.Backend {
	case core.StorageFile, "":
		b, err := filestore.New(conf.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return b, nopCloser{}, nil

	case core.StorageBadger:
		b, err := badgerstore.Open(conf.Storage.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil

	case core.StoragePostgres:
		db, err := pgstore.Open(ctx, conf.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		if err = pgstore.Migrate(ctx, db.DB); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		b := pgstore.New(db, conf.Database.DocumentName)
		return b, b, nil

	case core.StorageMemory:
		return inmemstore.New(), nopCloser{}, nil
	}
	return nil, nil, errors.Errorf("unknown storage backend %q", conf.Storage.Backend)
}
