package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/supersig"
)

// Auth authorizes a fixed set of conditions, Signer first, regardless of
// the context.
type Auth struct {
	Signer  supersig.Condition
	Signers []supersig.Condition
}

func (a *Auth) GetConditions(supersig.Context) []supersig.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append([]supersig.Condition{a.Signer}, a.Signers...)
}

func (a *Auth) HasAddress(ctx supersig.Context, addr supersig.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authorizes the conditions stored in the context under Key.
// Tests use distinct keys to emulate independent authentication schemes.
type CtxAuth struct {
	Key string
}

// SetConditions returns a context authorized by conds.
func (a *CtxAuth) SetConditions(ctx supersig.Context, conds ...supersig.Condition) supersig.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx supersig.Context) []supersig.Condition {
	switch v := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []supersig.Condition:
		return v
	default:
		panic(fmt.Sprintf("context key %q holds %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx supersig.Context, addr supersig.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []supersig.Condition, addr supersig.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
