package weavetest

import "github.com/iov-one/supersig"

// Handler is a mock implementing supersig.Handler. It counts deliveries and
// can be configured to write to the store before returning.
type Handler struct {
	deliverCall   int
	DeliverResult supersig.DeliverResult
	DeliverErr    error

	// Key and Value, if Key is set, are written to the store on every
	// delivery, also when DeliverErr is returned.
	Key   []byte
	Value []byte

	// Panic, if set, makes every delivery panic with this value.
	Panic interface{}
}

var _ supersig.Handler = (*Handler)(nil)

func (h *Handler) Deliver(ctx supersig.Context, db supersig.KVStore, msg supersig.Msg) (*supersig.DeliverResult, error) {
	h.deliverCall++
	if h.Key != nil {
		if err := db.Set(h.Key, h.Value); err != nil {
			return nil, err
		}
	}
	if h.Panic != nil {
		panic(h.Panic)
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CallCount() int {
	return h.deliverCall
}
