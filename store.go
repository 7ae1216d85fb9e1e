package supersig

// ReadOnlyKVStore reads the state. Keys must not be nil.
type ReadOnlyKVStore interface {
	// Get returns nil when the key is not set.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending key order. A nil bound
	// leaves that side open. The range must not be written to while the
	// iterator is open.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks [start, end) in descending key order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter writes the state. Callers must not modify the slices passed
// in afterwards.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore reads and writes the state.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
}

// Iterator is a cursor over a key range.
//
//	it, err := db.Iterator(start, end)
//	...
//	defer it.Close()
//	for ; it.Valid(); err = it.Next() {
//		key, value := it.Key(), it.Value()
//	}
type Iterator interface {
	// Valid is false once the range is exhausted, and stays false.
	Valid() bool
	// Next moves to the following key. It fails on an exhausted iterator.
	Next() error
	// Key and Value panic on an exhausted iterator. The returned slices
	// are read only.
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can open savepoints.
type CacheableKVStore interface {
	KVStore
	// CacheWrap opens a savepoint. Reads through the savepoint see its own
	// writes on top of the store, the store sees nothing until Write.
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a savepoint. It can be nested by opening another
// savepoint on top of it.
type KVCacheWrap interface {
	CacheableKVStore
	// Write applies the pending writes to the parent and empties the
	// savepoint.
	Write() error
	// Discard drops the pending writes.
	Discard()
}

// CommitKVStore is the root store. Writes are applied through savepoints
// and persisted as a new version by Commit.
type CommitKVStore interface {
	CacheableKVStore

	// Commit persists the current state as the next version.
	Commit() (CommitID, error)
	// LoadLatestVersion loads the last committed version. After a crash
	// during a commit this is the previous, consistent version.
	LoadLatestVersion() error
	LatestVersion() CommitID
}

// CommitID identifies a committed version by its number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
