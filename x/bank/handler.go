package bank

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r supersig.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ supersig.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx supersig.Context, store supersig.KVStore, m supersig.Msg) (*supersig.DeliverResult, error) {
	msg, ok := m.(*SendMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	if err := x.RequireAddress(ctx, h.auth, msg.Source, "account owner"); err != nil {
		return nil, err
	}

	if err := h.control.Transfer(store, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &supersig.DeliverResult{
		Events: []supersig.Event{
			supersig.NewEvent("transfer",
				"source", msg.Source,
				"destination", msg.Destination,
				"amount", msg.Amount,
			),
		},
	}, nil
}
