package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,12}$`).MatchString
)

// Bucket is a prefixed subspace of the DB holding entities of a single
// type.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of this bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One loads the entity stored under the given key into dest.
// This method returns ErrNotFound if the entity does not exist in the
// database.
func (b Bucket) One(db supersig.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	return Unmarshal(raw, dest)
}

// Has returns true if an entity with given key exists.
func (b Bucket) Has(db supersig.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(err, "cannot read from the database")
	}
	return ok, nil
}

// Put saves given model in the database.
func (b Bucket) Put(db supersig.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b Bucket) Delete(db supersig.KVStore, key []byte) error {
	dbkey := b.DBKey(key)
	ok, err := db.Has(dbkey)
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s: %X", b.name, key)
	}
	return db.Delete(dbkey)
}

// Each calls fn for every entity whose key starts with the given prefix,
// in ascending key order. The key passed to fn does not contain the
// bucket prefix. Returning an error from fn stops the iteration and that
// error is returned.
//
// fn must not write to keys of this bucket within the iterated range.
// Collect the keys first and modify them after Each returns.
func (b Bucket) Each(db supersig.ReadOnlyKVStore, prefix []byte, fn func(key, value []byte) error) error {
	start, end := prefixRange(b.DBKey(prefix))
	it, err := db.Iterator(start, end)
	if err != nil {
		return errors.Wrap(err, "cannot create iterator")
	}
	defer it.Close()

	plen := len(b.prefix)
	for it.Valid() {
		if err := fn(it.Key()[plen:], it.Value()); err != nil {
			return err
		}
		if err := it.Next(); err != nil {
			return errors.Wrap(err, "iterator")
		}
	}
	return nil
}

// Keys returns all keys stored under the given prefix, in ascending order
// and without the bucket prefix.
func (b Bucket) Keys(db supersig.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	var keys [][]byte
	err := b.Each(db, prefix, func(key, _ []byte) error {
		cpy := make([]byte, len(key))
		copy(cpy, key)
		keys = append(keys, cpy)
		return nil
	})
	return keys, err
}

// Sequence returns a Sequence by name
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// prefixRange turns a prefix into a (start, end) range. The end is the
// smallest key that does not start with prefix, or nil if there is none.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if prefix == nil {
		return nil, nil
	}
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
