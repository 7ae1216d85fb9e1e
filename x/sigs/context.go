package sigs

import (
	"context"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// WithSigners attaches the verified signers to the context. The first one
// is the main signer, the caller of the operation.
func WithSigners(ctx supersig.Context, signers ...supersig.Condition) supersig.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate returns the signers attached to the context.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx supersig.Context) []supersig.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]supersig.Condition)
	return val
}

// HasAddress returns true if any signer matches the address.
func (a Authenticate) HasAddress(ctx supersig.Context, addr supersig.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
