package bank

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/orm"
)

// BucketName is where we store the balances
const BucketName = "wallet"

// Wallet holds the balances of a single address.
type Wallet struct {
	Free     uint64
	Reserved uint64
}

var _ orm.Model = (*Wallet)(nil)

// Validate always succeeds, any balance is valid.
func (w *Wallet) Validate() error {
	return nil
}

// Total returns the sum of free and reserved funds.
func (w *Wallet) Total() (uint64, error) {
	return add(w.Free, w.Reserved)
}

// IsEmpty returns true if the wallet holds no funds.
func (w *Wallet) IsEmpty() bool {
	return w.Free == 0 && w.Reserved == 0
}

func add(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.Wrap(errors.ErrOverflow, "balance")
	}
	return sum, nil
}

// NewBucket returns the bucket holding wallets keyed by address.
func NewBucket() orm.Bucket {
	return orm.NewBucket(BucketName)
}

func loadWallet(b orm.Bucket, db supersig.ReadOnlyKVStore, addr supersig.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}
