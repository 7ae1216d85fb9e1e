package weavetest

import (
	"testing"

	"github.com/iov-one/supersig/weavetest/assert"
)

func TestNewConditionIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		addr := NewAddress()
		assert.Nil(t, addr.Validate())
		if seen[addr.String()] {
			t.Fatalf("address %s returned twice", addr)
		}
		seen[addr.String()] = true
	}
}

func TestSequenceID(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, SequenceID(1))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 0}, SequenceID(256))
}
