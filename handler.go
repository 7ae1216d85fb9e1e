package supersig

import (
	"encoding/json"
)

// Msg is an operation carried by a payload or delivered directly. It is
// routed by its Path.
type Msg interface {
	Path() string
	// Validate checks the message on its own, without reading the state.
	Validate() error
}

// Handler executes messages of one or more paths, for example a transfer
// or a membership change.
type Handler interface {
	Deliver(ctx Context, db KVStore, msg Msg) (*DeliverResult, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx Context, db KVStore, msg Msg) (*DeliverResult, error)

func (fn HandlerFunc) Deliver(ctx Context, db KVStore, msg Msg) (*DeliverResult, error) {
	return fn(ctx, db, msg)
}

// DeliverResult is the outcome of a successful Deliver.
type DeliverResult struct {
	Data []byte
	Log  string
	// Events are published once the operation that produced them is
	// written to the store.
	Events []Event
}

// Registry binds handlers to message paths.
type Registry interface {
	Handle(path string, h Handler)
}

// MsgRegistry binds message types to the names used by the codec.
type MsgRegistry interface {
	RegisterMsg(msg Msg, name string)
}

// Options is the genesis document, one JSON section per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the section stored under key into obj. A missing
// section leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs the initializers in order and stops at the first
// failure.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (all initializers) FromGenesis(opts Options, db KVStore) error {
	for _, in := range all {
		if err := in.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
