package badgerstore

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
)

var docKey = []byte("document")

// Backend stores the document under a single key of an embedded Badger database.
type Backend struct {
	db *badger.DB
}

var _ document.Backend = (*Backend)(nil)

// Open opens (or creates) the Badger database in dir. An empty dir opens an in-memory database.
func Open(dir string, logger core.Logger) (*Backend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{logger})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "opening badger")
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Name() string { return "badger" }

func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, document.ErrNoDocument
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading badger document")
	}
	return data, nil
}

func (b *Backend) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey, data)
	})
	return errors.Wrap(err, "writing badger document")
}

func (b *Backend) Close() error {
	return b.db.Close()
}

// badgerLogger forwards badger's logs to the DB logger.
type badgerLogger struct {
	logger core.Logger
}

func (l badgerLogger) Errorf(f string, args ...interface{}) {
	l.logger.Error(sprintf(f, args...))
}

func (l badgerLogger) Warningf(f string, args ...interface{}) {
	l.logger.Warn(sprintf(f, args...))
}

// badger is chatty at info level
func (l badgerLogger) Infof(string, ...interface{})  {}
func (l badgerLogger) Debugf(string, ...interface{}) {}
