package orm

import (
	"testing"

	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weavetest/assert"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewBucket("groups").Sequence("id")

	latest, err := s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), latest)

	first, err := s.NextVal(db)
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(1), first)

	second, err := s.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), second)

	latest, err = s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), latest)

	// the raw key is stable
	raw, err := db.Get([]byte("_s.groups:id"))
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(2), raw)

	// other sequences are independent
	other := NewSequence("groups", "other")
	n, err := other.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSequenceEncodingKeepsOrder(t *testing.T) {
	assert.Equal(t, int64(0), DecodeSequence(nil))
	vals := []int64{1, 255, 256, 1 << 40}
	for i := 1; i < len(vals); i++ {
		a, b := EncodeSequence(vals[i-1]), EncodeSequence(vals[i])
		if string(a) >= string(b) {
			t.Fatalf("%d encoded not before %d", vals[i-1], vals[i])
		}
		assert.Equal(t, vals[i], DecodeSequence(b))
	}
}
