package document

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// ErrNoDocument is returned by a Backend that holds no persisted document yet.
var ErrNoDocument = errors.New("no persisted document")

type (
	// Backend persists the serialized document.
	Backend interface {
		Name() string
		Read(ctx context.Context) ([]byte, error)
		Write(ctx context.Context, data []byte) error
	}

	// Observer receives the timing of every backend operation.
	Observer interface {
		ObserveStorage(backend, op string, took time.Duration, err error)
	}

	Option func(*Store)

	// Store owns the cached document and the backend it is persisted to.
	Store struct {
		backend  Backend
		logger   core.Logger
		observer Observer
		seed     func() *Document

		mu     sync.RWMutex // guards cached and gen
		cached *Document
		gen    uint64 // bumped by every Invalidate

		seedMu  sync.Mutex
		writeMu sync.Mutex
	}
)

// WithSeed overrides the document used when the backend is empty and on Reseed.
func WithSeed(seed func() *Document) Option {
	return func(s *Store) { s.seed = seed }
}

func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

func NewStore(backend Backend, logger core.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  logger,
		seed:    Seed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns a private copy of the document, reading it from the backend when not cached.
// An empty backend is seeded exactly once.
func (s *Store) Load(ctx context.Context) (*Document, error) {
	s.mu.RLock()
	if s.cached != nil {
		doc := s.cached.Clone()
		s.mu.RUnlock()
		return doc, nil
	}
	gen := s.gen
	s.mu.RUnlock()

	data, err := s.read(ctx)
	if errors.Cause(err) == ErrNoDocument {
		return s.seedOnce(ctx)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading document")
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	s.setCache(doc, gen)
	return doc.Clone(), nil
}

func (s *Store) seedOnce(ctx context.Context) (*Document, error) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	// another caller may have seeded while we waited
	data, err := s.read(ctx)
	if err == nil {
		doc, err := Decode(data)
		if err != nil {
			return nil, err
		}
		s.setCache(doc, gen)
		return doc.Clone(), nil
	}
	if errors.Cause(err) != ErrNoDocument {
		return nil, errors.Wrap(err, "reading document")
	}

	doc := s.seed()
	if err := s.Save(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "persisting seed document")
	}
	// not cached: a writer may already have replaced the seed
	s.logger.Info("seeded empty " + s.backend.Name() + " document store")
	return doc, nil
}

// Save writes the full document to the backend and invalidates the cache.
// Save is not synchronized: concurrent Load/Save pairs are last-write-wins. Use Mutate.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	start := time.Now()
	err = s.backend.Write(ctx, data)
	s.observe("write", start, err)
	if err != nil {
		return errors.Wrap(err, "writing document")
	}
	s.Invalidate()
	return nil
}

// Invalidate drops the cached document.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.gen++
	s.mu.Unlock()
}

// Reseed replaces the whole document with a fresh seed.
func (s *Store) Reseed(ctx context.Context) (*Document, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc := s.seed()
	if err := s.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Mutate applies fn to a private copy of the document and persists the result.
// Calls are serialized. If fn fails nothing is written and the cache is left untouched.
func (s *Store) Mutate(ctx context.Context, fn func(doc *Document) error) (*Document, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "mutating document")
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) read(ctx context.Context) ([]byte, error) {
	start := time.Now()
	data, err := s.backend.Read(ctx)
	if errors.Cause(err) == ErrNoDocument {
		s.observe("read", start, nil)
	} else {
		s.observe("read", start, err)
	}
	return data, err
}

// setCache caches doc unless the store was invalidated since gen was observed.
func (s *Store) setCache(doc *Document, gen uint64) {
	s.mu.Lock()
	if s.gen == gen {
		s.cached = doc
	}
	s.mu.Unlock()
}

func (s *Store) observe(op string, start time.Time, err error) {
	if s.observer != nil {
		s.observer.ObserveStorage(s.backend.Name(), op, time.Since(start), err)
	}
}
