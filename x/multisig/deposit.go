package multisig

import (
	"math/bits"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"golang.org/x/crypto/blake2b"
)

// Ledger is the currency ledger holding the funds. The core never moves
// funds by itself, it only instructs the ledger.
type Ledger interface {
	// Reserve moves amount from the free to the reserved balance. It must
	// fail with errors.ErrInsufficientAmount if the free balance is too
	// low.
	Reserve(db supersig.KVStore, who supersig.Address, amount uint64) error
	// Unreserve moves amount from the reserved back to the free balance.
	Unreserve(db supersig.KVStore, who supersig.Address, amount uint64) error
	// Transfer moves free funds between accounts.
	Transfer(db supersig.KVStore, src, dst supersig.Address, amount uint64) error
	Balance(db supersig.ReadOnlyKVStore, who supersig.Address) (free, reserved uint64, err error)
}

// HashPayload returns the content hash of the payload bytes.
func HashPayload(data []byte) []byte {
	h := blake2b.Sum256(data)
	return h[:]
}

// DepositFor returns the deposit reserved for a payload of the given size.
func DepositFor(conf *Configuration, size int) (uint64, error) {
	if size < 0 {
		return 0, errors.Wrap(errors.ErrInput, "negative size")
	}
	hi, perByte := bits.Mul64(conf.ByteDeposit, uint64(size))
	if hi != 0 {
		return 0, errors.Wrapf(ErrArithmeticOverflow, "%d bytes at %d", size, conf.ByteDeposit)
	}
	total, carry := bits.Add64(conf.BaseDeposit, perByte, 0)
	if carry != 0 {
		return 0, errors.Wrapf(ErrArithmeticOverflow, "%d bytes at %d plus %d", size, conf.ByteDeposit, conf.BaseDeposit)
	}
	return total, nil
}

func reserveDeposit(db supersig.KVStore, ledger Ledger, payer supersig.Address, amount uint64) error {
	if err := ledger.Reserve(db, payer, amount); err != nil {
		if errors.ErrInsufficientAmount.Is(err) {
			return errors.Wrapf(ErrInsufficientFunds, "deposit of %d: %s", amount, err)
		}
		return errors.Wrap(err, "reserve deposit")
	}
	return nil
}

func releaseDeposit(db supersig.KVStore, ledger Ledger, payer supersig.Address, amount uint64) error {
	if err := ledger.Unreserve(db, payer, amount); err != nil {
		return errors.Wrapf(err, "release deposit of %d", amount)
	}
	return nil
}

// TransferFromGroupAccount moves free funds of the group account. Only
// operations dispatched on behalf of the group may call it, the caller is
// responsible for checking that authority.
func TransferFromGroupAccount(db supersig.KVStore, ledger Ledger, groupID []byte, dst supersig.Address, amount uint64) error {
	if err := ledger.Transfer(db, GroupAccount(groupID), dst, amount); err != nil {
		return errors.Wrapf(err, "transfer from group %s", formatGroupID(groupID))
	}
	return nil
}
