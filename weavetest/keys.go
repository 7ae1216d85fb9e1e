package weavetest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/iov-one/supersig"
)

var condSeq uint64

// NewCondition returns a condition that is unique within the test binary.
// Conditions are built from a counter so their addresses are stable between
// runs and easy to recognize in failure messages.
func NewCondition() supersig.Condition {
	n := atomic.AddUint64(&condSeq, 1)
	return supersig.NewCondition("test", "seq", SequenceID(n))
}

// NewAddress returns the address of a fresh NewCondition.
func NewAddress() supersig.Address {
	return NewCondition().Address()
}

// SequenceID returns the 8 bytes big endian representation of n, the same
// encoding orm sequences use for identifiers.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
