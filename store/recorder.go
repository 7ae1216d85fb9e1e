package store

// Recorder interface is implemented by anything returned from
// NewRecordingStore
type Recorder interface {
	// KVPairs returns all keys changed since the recorder was created.
	// Value is the value written (for set), or nil (for delete).
	KVPairs() map[string][]byte
}

// RecordingStore wraps a CacheableKVStore and records any change
// operations that reach it, including the ones written from cache wraps.
type RecordingStore struct {
	CacheableKVStore
	changes map[string][]byte
}

var _ CacheableKVStore = (*RecordingStore)(nil)
var _ Recorder = (*RecordingStore)(nil)

// NewRecordingStore initializes a recording store wrapping this
// base store.
func NewRecordingStore(db CacheableKVStore) *RecordingStore {
	return &RecordingStore{
		CacheableKVStore: db,
		changes:          make(map[string][]byte),
	}
}

// KVPairs returns the content of changes.
func (r *RecordingStore) KVPairs() map[string][]byte {
	return r.changes
}

// Set records the changes while performing
func (r *RecordingStore) Set(key, value []byte) error {
	r.changes[string(key)] = value
	return r.CacheableKVStore.Set(key, value)
}

// Delete records the changes while performing
func (r *RecordingStore) Delete(key []byte) error {
	r.changes[string(key)] = nil
	return r.CacheableKVStore.Delete(key)
}

// CacheWrap makes sure all cached writes also go through this
func (r *RecordingStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(r, NewNonAtomicBatch(r), nil)
}
