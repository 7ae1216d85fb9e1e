package store

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/supersig/weavetest/assert"
)

// Suite checks the savepoint contract of a CacheableKVStore
// implementation. The engine relies on it for every state transition, so
// each backend runs the same suite from its own tests.
type Suite struct {
	open func() (CacheableKVStore, func())
}

// NewSuite returns a suite running against stores created by open. The
// returned function releases the store.
func NewSuite(open func() (CacheableKVStore, func())) *Suite {
	return &Suite{open: open}
}

// Run executes all checks as subtests.
func (s *Suite) Run(t *testing.T) {
	t.Run("isolation", s.Isolation)
	t.Run("nested", s.Nested)
	t.Run("overlay", s.Overlay)
	t.Run("random overlay", s.RandomOverlay)
}

// Isolation checks that a savepoint reads through to its parent and that
// its writes reach the parent only when written.
func (s *Suite) Isolation(t *testing.T) {
	base, done := s.open()
	defer done()

	group, members := []byte("group/1"), []byte("alice,bert")
	expectValue(t, base, group, nil)
	assert.Nil(t, base.Set(group, members))

	sp := base.CacheWrap()
	expectValue(t, sp, group, members)

	payload := []byte("payload/1")
	assert.Nil(t, sp.Set(payload, []byte("send 10")))
	assert.Nil(t, sp.Delete(group))
	expectValue(t, sp, group, nil)
	expectValue(t, base, group, members)
	expectValue(t, base, payload, nil)

	sp.Discard()
	expectValue(t, base, group, members)
	expectValue(t, base, payload, nil)

	sp = base.CacheWrap()
	assert.Nil(t, sp.Set(payload, []byte("send 10")))
	assert.Nil(t, sp.Delete(group))
	assert.Nil(t, sp.Write())
	expectValue(t, base, group, nil)
	expectValue(t, base, payload, []byte("send 10"))
}

// Nested checks that a discarded inner savepoint leaves the outer one
// untouched, and that a written inner savepoint still goes away with a
// discarded outer one.
func (s *Suite) Nested(t *testing.T) {
	base, done := s.open()
	defer done()

	receipt, deposit := []byte("receipt/1"), []byte("deposit/alice")

	outer := base.CacheWrap()
	assert.Nil(t, outer.Set(deposit, []byte("120")))
	inner := outer.CacheWrap()
	assert.Nil(t, inner.Set(receipt, []byte("failed")))
	assert.Nil(t, inner.Delete(deposit))
	inner.Discard()
	expectValue(t, outer, deposit, []byte("120"))
	expectValue(t, outer, receipt, nil)
	assert.Nil(t, outer.Write())
	expectValue(t, base, deposit, []byte("120"))
	expectValue(t, base, receipt, nil)

	outer = base.CacheWrap()
	inner = outer.CacheWrap()
	assert.Nil(t, inner.Set(receipt, []byte("executed")))
	expectValue(t, outer, receipt, nil)
	assert.Nil(t, inner.Write())
	expectValue(t, outer, receipt, []byte("executed"))
	expectValue(t, base, receipt, nil)
	outer.Discard()
	expectValue(t, base, receipt, nil)
}

// Overlay checks range iteration over a savepoint mixing its own writes
// and deletes with the parent state.
func (s *Suite) Overlay(t *testing.T) {
	cases := map[string]struct {
		base    []Op
		pending []Op
		start   []byte
		end     []byte
		want    []string
	}{
		"parent only": {
			base: []Op{SetOp([]byte("g/1"), []byte("a")), SetOp([]byte("g/2"), []byte("b"))},
			want: []string{"g/1=a", "g/2=b"},
		},
		"savepoint only": {
			pending: []Op{SetOp([]byte("p/2"), []byte("y")), SetOp([]byte("p/1"), []byte("x"))},
			want:    []string{"p/1=x", "p/2=y"},
		},
		"overwrite and delete": {
			base: []Op{
				SetOp([]byte("p/1"), []byte("old")),
				SetOp([]byte("p/2"), []byte("gone")),
				SetOp([]byte("p/4"), []byte("kept")),
			},
			pending: []Op{
				SetOp([]byte("p/1"), []byte("new")),
				DelOp([]byte("p/2")),
				SetOp([]byte("p/3"), []byte("added")),
			},
			want: []string{"p/1=new", "p/3=added", "p/4=kept"},
		},
		"bounded range": {
			base: []Op{
				SetOp([]byte("a/1"), []byte("1")),
				SetOp([]byte("p/1"), []byte("2")),
				SetOp([]byte("z/1"), []byte("3")),
			},
			pending: []Op{SetOp([]byte("p/2"), []byte("4")), DelOp([]byte("z/1"))},
			start:   []byte("p/"),
			end:     []byte("p0"),
			want:    []string{"p/1=2", "p/2=4"},
		},
		"deleted everything": {
			base:    []Op{SetOp([]byte("p/1"), []byte("1"))},
			pending: []Op{DelOp([]byte("p/1")), DelOp([]byte("p/9"))},
			want:    nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, done := s.open()
			defer done()
			for _, op := range tc.base {
				assert.Nil(t, op.Apply(base))
			}
			sp := base.CacheWrap()
			for _, op := range tc.pending {
				assert.Nil(t, op.Apply(sp))
			}

			assert.Equal(t, tc.want, collect(t, sp, tc.start, tc.end, false))
			back := make([]string, 0, len(tc.want))
			for i := len(tc.want) - 1; i >= 0; i-- {
				back = append(back, tc.want[i])
			}
			if len(back) == 0 {
				back = nil
			}
			assert.Equal(t, back, collect(t, sp, tc.start, tc.end, true))
		})
	}
}

// RandomOverlay compares iteration over a savepoint with a map replaying
// the same random writes and deletes.
func (s *Suite) RandomOverlay(t *testing.T) {
	base, done := s.open()
	defer done()

	rnd := rand.New(rand.NewSource(42))
	want := make(map[string]string)
	key := func() []byte { return []byte(fmt.Sprintf("payload/%03d", rnd.Intn(200))) }

	for i := 0; i < 150; i++ {
		k, v := key(), fmt.Sprintf("%x", rnd.Int63())
		assert.Nil(t, base.Set(k, []byte(v)))
		want[string(k)] = v
	}
	sp := base.CacheWrap()
	for i := 0; i < 150; i++ {
		k := key()
		if rnd.Intn(3) == 0 {
			assert.Nil(t, sp.Delete(k))
			delete(want, string(k))
			continue
		}
		v := fmt.Sprintf("%x", rnd.Int63())
		assert.Nil(t, sp.Set(k, []byte(v)))
		want[string(k)] = v
	}

	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	expected := make([]string, len(keys))
	for i, k := range keys {
		expected[i] = k + "=" + want[k]
	}
	assert.Equal(t, expected, collect(t, sp, nil, nil, false))

	start, end := []byte("payload/050"), []byte("payload/120")
	var bounded []string
	for i := len(keys) - 1; i >= 0; i-- {
		if k := []byte(keys[i]); bytes.Compare(k, start) >= 0 && bytes.Compare(k, end) < 0 {
			bounded = append(bounded, expected[i])
		}
	}
	assert.Equal(t, bounded, collect(t, sp, start, end, true))
}

func expectValue(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
	has, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, has)
}

// collect returns the range as "key=value" strings in iteration order.
func collect(t testing.TB, kv ReadOnlyKVStore, start, end []byte, reverse bool) []string {
	t.Helper()
	var (
		it  Iterator
		err error
	)
	if reverse {
		it, err = kv.ReverseIterator(start, end)
	} else {
		it, err = kv.Iterator(start, end)
	}
	assert.Nil(t, err)
	defer it.Close()

	var res []string
	for it.Valid() {
		res = append(res, string(it.Key())+"="+string(it.Value()))
		assert.Nil(t, it.Next())
	}
	return res
}
