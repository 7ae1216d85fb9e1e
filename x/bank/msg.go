package bank

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

const maxMemoSize int = 128

// RegisterCodec registers the messages of this package so that they can
// be encoded into payloads.
func RegisterCodec(r supersig.MsgRegistry) {
	r.RegisterMsg(&SendMsg{}, "bank/SendMsg")
}

// SendMsg moves free funds from the source to the destination. The source
// must authorize the operation.
type SendMsg struct {
	Source      supersig.Address
	Destination supersig.Address
	Amount      uint64
	Memo        string
}

var _ supersig.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "bank/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive SendMsg")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrState, "memo too long")
	}
	return nil
}
