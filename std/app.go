package std

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/app"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store/iavl"
	"github.com/iov-one/supersig/x"
	"github.com/iov-one/supersig/x/bank"
	"github.com/iov-one/supersig/x/multisig"
	"github.com/iov-one/supersig/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

// Codec returns a sealed codec of every message a payload can carry.
func Codec() *app.Codec {
	c := app.NewCodec()
	bank.RegisterCodec(c)
	multisig.RegisterCodec(c)
	return c.Seal()
}

// Router returns a router dispatching the bank and multisig messages.
func Router(auth x.Authenticator, ctrl bank.Controller) *app.Router {
	r := app.NewRouter()
	bank.RegisterRoutes(r, auth, ctrl)
	multisig.RegisterRoutes(r, auth, ctrl)
	return r
}

// Initializer loads the bank accounts, then the multisig configuration and
// groups from the genesis.
func Initializer() supersig.Initializer {
	return supersig.ChainInitializers(
		bank.Initializer{},
		multisig.Initializer{},
	)
}

// Application sequences the operations of a node. Every operation is run
// at the next height and committed on success.
type Application struct {
	*app.StoreApp

	Codec  *app.Codec
	Bank   bank.Controller
	Engine *multisig.Engine

	router *app.Router
	sink   supersig.EventSink

	// mu keeps pending owned by a single operation until it is published.
	mu      sync.Mutex
	pending *eventBuffer
}

// eventBuffer holds the events of the operation in progress. The engine
// publishes to it when its own savepoint is written, which is before the
// operation is committed.
type eventBuffer struct {
	events []supersig.Event
}

var _ supersig.EventSink = (*eventBuffer)(nil)

func (b *eventBuffer) Publish(_ supersig.Context, events []supersig.Event) error {
	b.events = append(b.events, events...)
	return nil
}

func (b *eventBuffer) take() []supersig.Event {
	events := b.events
	b.events = nil
	return events
}

// NewApplication wires the standard stack on top of kv. Events of
// committed operations are published to sink, which may be nil.
func NewApplication(kv supersig.CommitKVStore, sink supersig.EventSink, logger log.Logger) (*Application, error) {
	store, err := app.NewStoreApp(kv, Initializer())
	if err != nil {
		return nil, err
	}
	if logger != nil {
		store.WithLogger(logger)
	}
	if sink == nil {
		sink = supersig.NopSink{}
	}

	ctrl := bank.NewController()
	codec := Codec()
	pending := &eventBuffer{}
	// Messages delivered directly are authorized by their signers, payloads
	// by the group account only.
	router := Router(x.ChainAuth(sigs.Authenticate{}, multisig.Authenticate{}), ctrl)
	return &Application{
		StoreApp: store,
		Codec:    codec,
		Bank:     ctrl,
		Engine:   multisig.NewEngine(sigs.Authenticate{}, ctrl, app.NewDispatcher(codec, router), pending),
		router:   router,
		sink:     sink,
		pending:  pending,
	}, nil
}

// Apply runs fn as a single operation signed by signer. Events emitted by
// the engine are published only if the operation is committed.
func (a *Application) Apply(ctx context.Context, signer supersig.Condition, fn func(supersig.Context, supersig.KVStore) error) error {
	_, err := a.deliver(ctx, signer, func(ctx supersig.Context, db supersig.KVStore) (*supersig.DeliverResult, error) {
		return nil, fn(ctx, db)
	})
	return err
}

// DeliverMsg runs a message signed by signer outside of any group, for
// example a transfer between personal accounts.
func (a *Application) DeliverMsg(ctx context.Context, signer supersig.Condition, msg supersig.Msg) (*supersig.DeliverResult, error) {
	return a.deliver(ctx, signer, func(ctx supersig.Context, db supersig.KVStore) (*supersig.DeliverResult, error) {
		if err := msg.Validate(); err != nil {
			return nil, errors.Wrapf(err, "validate %s", msg.Path())
		}
		return a.router.Deliver(ctx, db, msg)
	})
}

// deliver commits op and then publishes the engine events followed by the
// events of the result. Nothing is published when op fails.
func (a *Application) deliver(ctx context.Context, signer supersig.Condition, op app.Operation) (*supersig.DeliverResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var height int64
	res, err := a.Deliver(sigs.WithSigners(ctx, signer), func(ctx supersig.Context, db supersig.KVStore) (*supersig.DeliverResult, error) {
		height, _ = supersig.GetHeight(ctx)
		a.pending.take()
		return op(ctx, db)
	})
	events := a.pending.take()
	if err != nil {
		return nil, err
	}
	if res != nil {
		for _, e := range res.Events {
			e.Height = height
			events = append(events, e)
		}
	}
	if len(events) > 0 {
		if err := a.sink.Publish(ctx, events); err != nil {
			a.Logger().Error("cannot publish events", "err", err, "count", len(events))
		}
	}
	return res, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (supersig.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	s, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	return s, nil
}
