package orm

import (
	"github.com/iov-one/supersig/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc is used for all entities persisted by buckets. Models are always
// concrete types so no registration is required.
var cdc = amino.NewCodec()

// Model is implemented by any entity that can be stored in a Bucket.
type Model interface {
	// Validate returns error if the object is not in a valid
	// state to save to the db (eg. field missing, out of range, ...)
	Validate() error
}

// Marshal serializes a model into its binary representation.
func Marshal(m Model) ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "marshal %T: %s", m, err)
	}
	return bz, nil
}

// Unmarshal loads the binary representation into the given model. Dest must
// be a pointer.
func Unmarshal(raw []byte, dest Model) error {
	if err := cdc.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal %T: %s", dest, err)
	}
	return nil
}
