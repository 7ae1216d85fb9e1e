package app

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

// Dispatcher performs payloads: it decodes the bytes into a message,
// validates it and delivers it to the handler registered for its path.
// Authority comes only from the context, the dispatcher never adds any.
type Dispatcher struct {
	codec   *Codec
	handler supersig.Handler
}

// NewDispatcher returns a dispatcher delivering the messages decoded by
// codec to handler, usually a Router.
func NewDispatcher(codec *Codec, handler supersig.Handler) *Dispatcher {
	return &Dispatcher{codec: codec, handler: handler}
}

// Execute decodes and delivers the payload. Panics of the handler are
// recovered and returned as errors.
func (d *Dispatcher) Execute(ctx supersig.Context, db supersig.KVStore, payload []byte) (res *supersig.DeliverResult, err error) {
	defer errors.Recover(&err)

	msg, err := d.codec.Decode(payload)
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validate %s", msg.Path())
	}
	supersig.GetLogger(ctx).Debug("dispatch", "path", msg.Path())
	return d.handler.Deliver(ctx, db, msg)
}
