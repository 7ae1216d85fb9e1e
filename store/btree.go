package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/supersig/errors"
)

// btreeDegree is small on purpose, savepoints usually hold a handful of
// writes.
const btreeDegree = 2

// BTreeCacheable gives any KVStore savepoints backed by a btree cache.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, NewNonAtomicBatch(b.KVStore), nil)
}

// MemStore returns an empty in-memory store. Nothing is persisted.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, NewNonAtomicBatch(empty), nil)
}

// BTreeCacheWrap keeps pending writes in a btree over a read only parent.
// Reads see the pending writes first. Write replays them into the batch
// target, Discard forgets them.
type BTreeCacheWrap struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	batch  *NonAtomicBatch
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap returns a cache over parent flushing into batch. Nested
// caches pass the free list of their parent to share released nodes, nil
// allocates a new one.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch *NonAtomicBatch, free *btree.FreeList) *BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return &BTreeCacheWrap{
		tree:   btree.NewWithFreeList(btreeDegree, free),
		free:   free,
		parent: parent,
		batch:  batch,
	}
}

func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, NewNonAtomicBatch(b), b.free)
}

// Write flushes the pending writes and empties the cache.
func (b *BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return errors.Wrap(err, "write cache")
}

func (b *BTreeCacheWrap) Discard() {
	for b.tree.DeleteMin() != nil {
	}
	b.batch.reset()
}

func (b *BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		panic("nil key")
	}
	b.tree.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b *BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		panic("nil key")
	}
	b.tree.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.lookup(key); ok {
		return e.value, nil
	}
	return b.parent.Get(key)
}

func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.lookup(key); ok {
		return !e.deleted, nil
	}
	return b.parent.Has(key)
}

// lookup returns the pending entry for key, if any.
func (b *BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	item := b.tree.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

func (b *BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	it, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIter(b.pending(start, end), it, false)
}

func (b *BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	it, err := b.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	entries := b.pending(start, end)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return newMergeIter(entries, it, true)
}

// pending returns the cached entries within [start, end) in ascending key
// order. A nil bound leaves that side open.
func (b *BTreeCacheWrap) pending(start, end []byte) []entry {
	var res []entry
	visit := func(item btree.Item) bool {
		res = append(res, item.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.tree.Ascend(visit)
	case start == nil:
		b.tree.AscendLessThan(entry{key: end}, visit)
	case end == nil:
		b.tree.AscendGreaterOrEqual(entry{key: start}, visit)
	default:
		b.tree.AscendRange(entry{key: start}, entry{key: end}, visit)
	}
	return res
}

// entry is a pending write. Deleted entries hide the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
