package store

import (
	"fmt"

	"github.com/iov-one/supersig/errors"
)

// SliceIterator walks a prepared list of models. Stores that cannot
// stream a range collect it first and hand it out with this iterator.
type SliceIterator struct {
	models []Model
	pos    int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator returns an iterator positioned at the first model.
func NewSliceIterator(models []Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (it *SliceIterator) Valid() bool {
	return it.pos < len(it.models)
}

func (it *SliceIterator) Next() error {
	if !it.Valid() {
		return errors.Wrap(errors.ErrDatabase, "iterator exhausted")
	}
	it.pos++
	return nil
}

// Key panics when the iterator is not valid.
func (it *SliceIterator) Key() []byte {
	return it.current().Key
}

// Value panics when the iterator is not valid.
func (it *SliceIterator) Value() []byte {
	return it.current().Value
}

func (it *SliceIterator) current() Model {
	if !it.Valid() {
		panic("iterator exhausted")
	}
	return it.models[it.pos]
}

// Close drops the models, the iterator is invalid afterwards.
func (it *SliceIterator) Close() {
	it.models = nil
	it.pos = 0
}

// EmptyKVStore is a store that holds nothing and ignores writes. It is the
// bottom layer of a standalone cache.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error)  { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)    { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error { return nil }
func (EmptyKVStore) Delete([]byte) error         { return nil }

func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// Op is a single pending write, either a set or a delete.
type Op struct {
	del   bool
	key   []byte
	value []byte
}

// SetOp returns an operation writing value under key.
func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

// DelOp returns an operation removing key.
func DelOp(key []byte) Op {
	return Op{del: true, key: key}
}

// Apply executes the operation against out.
func (o Op) Apply(out SetDeleter) error {
	if o.key == nil {
		panic(fmt.Sprintf("operation without a key: %+v", o))
	}
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch queues writes and replays them in order on Write. A
// failure in the middle of Write leaves the already applied operations in
// place, so it is only suitable for in-memory stores and cache layers.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write applies the queued operations and empties the queue.
func (b *NonAtomicBatch) Write() error {
	for i, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			b.ops = b.ops[i:]
			return err
		}
	}
	b.reset()
	return nil
}

// Pending returns the number of queued operations.
func (b *NonAtomicBatch) Pending() int {
	return len(b.ops)
}

func (b *NonAtomicBatch) reset() {
	b.ops = nil
}
