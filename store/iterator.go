package store

import (
	"bytes"

	"github.com/iov-one/supersig/errors"
)

// mergeIter walks the pending entries of a cache together with the
// iterator of its parent. On equal keys the pending entry wins, and
// deleted entries hide the parent value.
type mergeIter struct {
	entries []entry
	pos     int
	parent  Iterator
	reverse bool
}

var _ Iterator = (*mergeIter)(nil)

func newMergeIter(entries []entry, parent Iterator, reverse bool) (*mergeIter, error) {
	it := &mergeIter{
		entries: entries,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// head tells which side holds the next key in iteration order.
type head int

const (
	headNone head = iota
	headCache
	headParent
	headBoth
)

func (it *mergeIter) head() head {
	cacheOK := it.pos < len(it.entries)
	parentOK := it.parent != nil && it.parent.Valid()
	switch {
	case !cacheOK && !parentOK:
		return headNone
	case !parentOK:
		return headCache
	case !cacheOK:
		return headParent
	}
	cmp := bytes.Compare(it.entries[it.pos].key, it.parent.Key())
	if it.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return headCache
	case cmp > 0:
		return headParent
	default:
		return headBoth
	}
}

func (it *mergeIter) Valid() bool {
	return it.head() != headNone
}

func (it *mergeIter) Next() error {
	if err := it.advance(it.head()); err != nil {
		return err
	}
	return it.skipDeleted()
}

func (it *mergeIter) advance(h head) error {
	switch h {
	case headCache:
		it.pos++
	case headParent:
		return it.parent.Next()
	case headBoth:
		it.pos++
		return it.parent.Next()
	default:
		return errors.Wrap(errors.ErrDatabase, "iterator exhausted")
	}
	return nil
}

// skipDeleted moves past every deleted entry at the head, together with
// the parent value it hides.
func (it *mergeIter) skipDeleted() error {
	for {
		h := it.head()
		if h != headCache && h != headBoth {
			return nil
		}
		if !it.entries[it.pos].deleted {
			return nil
		}
		if err := it.advance(h); err != nil {
			return err
		}
	}
}

func (it *mergeIter) Key() []byte {
	switch it.head() {
	case headCache, headBoth:
		return it.entries[it.pos].key
	case headParent:
		return it.parent.Key()
	}
	panic("iterator exhausted")
}

func (it *mergeIter) Value() []byte {
	switch it.head() {
	case headCache, headBoth:
		return it.entries[it.pos].value
	case headParent:
		return it.parent.Value()
	}
	panic("iterator exhausted")
}

func (it *mergeIter) Close() {
	if it.parent != nil {
		it.parent.Close()
	}
	it.entries = nil
}
