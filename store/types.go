package store

import "github.com/iov-one/supersig"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = supersig.ReadOnlyKVStore
	SetDeleter       = supersig.SetDeleter
	KVStore          = supersig.KVStore
	Iterator         = supersig.Iterator
	CacheableKVStore = supersig.CacheableKVStore
	KVCacheWrap      = supersig.KVCacheWrap
	CommitKVStore    = supersig.CommitKVStore
	CommitID         = supersig.CommitID
)

// Batch can write multiple ops atomically to an underlying KVStore
type Batch interface {
	SetDeleter
	Write() error
}

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}
