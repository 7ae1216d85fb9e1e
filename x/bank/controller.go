package bank

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/orm"
)

// Controller is the functionality needed by the handlers and by other
// extensions that move funds.
type Controller struct {
	bucket orm.Bucket
}

// NewController returns a controller using the default wallet bucket.
func NewController() Controller {
	return Controller{bucket: NewBucket()}
}

// Balance returns the free and reserved funds of an address. A missing
// wallet has zero balance.
func (c Controller) Balance(db supersig.ReadOnlyKVStore, addr supersig.Address) (free, reserved uint64, err error) {
	w, err := loadWallet(c.bucket, db, addr)
	if err != nil {
		return 0, 0, err
	}
	return w.Free, w.Reserved, nil
}

// Issue adds the given amount to the free balance of the destination.
// Fails if it overflows the wallet.
func (c Controller) Issue(db supersig.KVStore, dest supersig.Address, amount uint64) error {
	w, err := loadWallet(c.bucket, db, dest)
	if err != nil {
		return err
	}
	if w.Free, err = add(w.Free, amount); err != nil {
		return err
	}
	if _, err := w.Total(); err != nil {
		return err
	}
	return c.save(db, dest, w)
}

// Reserve moves the amount from the free to the reserved balance.
func (c Controller) Reserve(db supersig.KVStore, addr supersig.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	w, err := loadWallet(c.bucket, db, addr)
	if err != nil {
		return err
	}
	if w.Free < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "free %d, want %d", w.Free, amount)
	}
	w.Free -= amount
	w.Reserved += amount
	return c.save(db, addr, w)
}

// Unreserve moves the amount from the reserved back to the free balance.
func (c Controller) Unreserve(db supersig.KVStore, addr supersig.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	w, err := loadWallet(c.bucket, db, addr)
	if err != nil {
		return err
	}
	if w.Reserved < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "reserved %d, want %d", w.Reserved, amount)
	}
	w.Reserved -= amount
	w.Free += amount
	return c.save(db, addr, w)
}

// Transfer moves the given amount of free funds from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c Controller) Transfer(db supersig.KVStore, src, dest supersig.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	sender, err := loadWallet(c.bucket, db, src)
	if err != nil {
		return err
	}
	if sender.Free < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "free %d, want %d", sender.Free, amount)
	}
	sender.Free -= amount
	if err := c.save(db, src, sender); err != nil {
		return err
	}

	recipient, err := loadWallet(c.bucket, db, dest)
	if err != nil {
		return err
	}
	if recipient.Free, err = add(recipient.Free, amount); err != nil {
		return err
	}
	if _, err := recipient.Total(); err != nil {
		return err
	}
	return c.save(db, dest, recipient)
}

func (c Controller) save(db supersig.KVStore, addr supersig.Address, w *Wallet) error {
	if w.IsEmpty() {
		if ok, err := c.bucket.Has(db, addr); err != nil || !ok {
			return err
		}
		return c.bucket.Delete(db, addr)
	}
	return c.bucket.Put(db, addr, w)
}
