package multisig

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// operation is the state of a single engine call.
type operation struct {
	ctx    supersig.Context
	db     supersig.KVCacheWrap
	height int64
	logger log.Logger
	events []supersig.Event
}

func (op *operation) emit(typ string, keyvals ...interface{}) {
	op.events = append(op.events, supersig.NewEvent(typ, keyvals...))
}

// run isolates all writes of fn in a savepoint of the store, and
// commit/rollback to savepoint based on if error. Events collected by fn
// are published only once the savepoint is written.
func (e *Engine) run(ctx supersig.Context, db supersig.KVStore, name string, fn func(*operation) error) error {
	cstore, ok := db.(supersig.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrHuman, "%T does not support savepoints", db)
	}
	height, _ := supersig.GetHeight(ctx)
	logger := supersig.GetLogger(ctx).With("module", "multisig", "op", name)
	op := &operation{
		ctx:    supersig.WithLogger(ctx, logger),
		db:     cstore.CacheWrap(),
		height: height,
		logger: logger,
	}

	if err := fn(op); err != nil {
		op.db.Discard()
		logger.Error("operation failed", "err", err)
		return err
	}
	if err := op.db.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}

	for i := range op.events {
		if op.events[i].Height == 0 {
			op.events[i].Height = height
		}
	}
	if len(op.events) > 0 {
		// The operation is written at this point, publishing failures are
		// only logged.
		if err := e.sink.Publish(op.ctx, op.events); err != nil {
			logger.Error("cannot publish events", "err", err, "count", len(op.events))
		}
	}
	return nil
}
