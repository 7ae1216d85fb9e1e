package orm

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

// Sequence is a persistent counter handing out increasing identifiers. The
// encoded values sort in the same order as the numbers, so they can be
// used as keys directly.
type Sequence struct {
	key []byte
}

// NewSequence returns the sequence stored under "_s.<bucket>:<name>".
func NewSequence(bucket, name string) Sequence {
	return Sequence{key: []byte("_s." + bucket + ":" + name)}
}

// NextVal advances the sequence and returns the new value encoded.
func (s *Sequence) NextVal(db supersig.KVStore) ([]byte, error) {
	n, err := s.next(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(n), nil
}

// NextInt advances the sequence and returns the new value.
func (s *Sequence) NextInt(db supersig.KVStore) (int64, error) {
	return s.next(db)
}

// Latest returns the last value handed out, 0 for an unused sequence.
func (s *Sequence) Latest(db supersig.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.key)
	if err != nil {
		return 0, errors.Wrap(err, "read sequence")
	}
	return DecodeSequence(raw), nil
}

func (s *Sequence) next(db supersig.KVStore) (int64, error) {
	n, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	if n == math.MaxInt64 {
		return 0, errors.Wrapf(errors.ErrOverflow, "sequence %s", s.key)
	}
	n++
	if err := db.Set(s.key, EncodeSequence(n)); err != nil {
		return 0, errors.Wrap(err, "write sequence")
	}
	return n, nil
}

// EncodeSequence returns n as 8 big endian bytes.
func EncodeSequence(n int64) []byte {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], uint64(n))
	return raw[:]
}

// DecodeSequence reverses EncodeSequence. Values of any other length
// decode to 0.
func DecodeSequence(raw []byte) int64 {
	if len(raw) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(raw))
}
