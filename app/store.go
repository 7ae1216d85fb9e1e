package app

import (
	"context"
	"sync"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/tendermint/tendermint/libs/log"
)

// Operation is a single unit of work sequenced by the StoreApp. It receives
// a cached view of the state. Returning an error drops every write the
// operation made.
type Operation func(ctx supersig.Context, db supersig.KVStore) (*supersig.DeliverResult, error)

// StoreApp contains a data store and sequences all operations over it.
//
// Operations are executed one at a time. Every successful operation is
// written to the store and committed as a new version, so that the height
// seen by an operation is always the version it is going to produce.
type StoreApp struct {
	logger log.Logger

	mu    sync.Mutex
	store supersig.CommitKVStore

	// Code to initialize from a genesis file
	initializer supersig.Initializer
}

// NewStoreApp loads the latest committed state of the store and returns an
// application ready to sequence operations on top of it.
func NewStoreApp(store supersig.CommitKVStore, init supersig.Initializer) (*StoreApp, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	s := &StoreApp{
		store:       store,
		initializer: init,
	}
	return s.WithLogger(log.NewNopLogger()), nil
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization
//
// also sets baseContext logger
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger.With("module", "app")
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// ReadStore returns the committed state, for queries.
func (s *StoreApp) ReadStore() supersig.ReadOnlyKVStore {
	return s.store
}

// LatestVersion returns the version and hash of the last commit.
func (s *StoreApp) LatestVersion() supersig.CommitID {
	return s.store.LatestVersion()
}

// InitChain initializes the state from the genesis options. It is allowed
// only on an empty store that was never committed.
func (s *StoreApp) InitChain(opts supersig.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v := s.store.LatestVersion().Version; v != 0 {
		return errors.Wrapf(errors.ErrState, "already initialized at version %d", v)
	}
	if s.initializer == nil {
		s.logger.Info("No initializer set")
		return nil
	}

	cache := s.store.CacheWrap()
	if err := s.initializer.FromGenesis(opts, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	id, err := s.store.Commit()
	if err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	s.logger.Info("Genesis loaded", "version", id.Version, "hash", id.Hash)
	return nil
}

// Deliver runs the operation at the next height. The writes of a successful
// operation are committed, the writes of a failed one are dropped.
func (s *StoreApp) Deliver(ctx context.Context, op Operation) (*supersig.DeliverResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	height := s.store.LatestVersion().Version + 1
	ctx = supersig.WithHeight(ctx, height)
	ctx = supersig.WithLogger(ctx, s.logger.With("height", height))

	cache := s.store.CacheWrap()
	rec := store.NewRecordingStore(cache)
	res, err := op(ctx, rec)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	id, err := s.store.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	s.logger.Debug("Commit", "version", id.Version, "hash", id.Hash, "changed", len(rec.KVPairs()))
	return res, nil
}
