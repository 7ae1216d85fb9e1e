package app

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	amino "github.com/tendermint/go-amino"
)

// Codec encodes messages into the binary payload format. Every message
// type must be registered under a unique name before it can be encoded or
// decoded.
type Codec struct {
	cdc *amino.Codec
}

// NewCodec returns a codec with the message interface registered.
func NewCodec() *Codec {
	cdc := amino.NewCodec()
	cdc.RegisterInterface((*supersig.Msg)(nil), nil)
	return &Codec{cdc: cdc}
}

// RegisterMsg registers a concrete message type. The msg must be a pointer
// and name must be unique within the codec.
func (c *Codec) RegisterMsg(msg supersig.Msg, name string) {
	c.cdc.RegisterConcrete(msg, name, nil)
}

// Seal prevents further registrations.
func (c *Codec) Seal() *Codec {
	c.cdc.Seal()
	return c
}

// Encode returns the binary representation of a message.
func (c *Codec) Encode(msg supersig.Msg) ([]byte, error) {
	raw, err := c.cdc.MarshalBinaryBare(msg)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "encode %T: %s", msg, err)
	}
	return raw, nil
}

// MustEncode is Encode that panics on error. Use it only for messages
// built by the program itself.
func (c *Codec) MustEncode(msg supersig.Msg) []byte {
	raw, err := c.Encode(msg)
	if err != nil {
		panic(err)
	}
	return raw
}

// Decode returns the message encoded in raw.
func (c *Codec) Decode(raw []byte) (supersig.Msg, error) {
	var msg supersig.Msg
	if err := c.cdc.UnmarshalBinaryBare(raw, &msg); err != nil {
		return nil, errors.Wrapf(ErrDecode, "%s", err)
	}
	if msg == nil {
		return nil, errors.Wrap(ErrDecode, "empty message")
	}
	return msg, nil
}
