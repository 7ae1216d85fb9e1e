package x

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

// Authenticator tells which conditions authorized the current operation.
// Handlers receive one in their constructor so the scheme can be swapped,
// for example signatures for direct messages and the group account for
// dispatched payloads.
type Authenticator interface {
	// GetConditions returns the authorizing conditions, the main signer
	// first.
	GetConditions(supersig.Context) []supersig.Condition
	// HasAddress reports whether any authorizing condition has addr.
	HasAddress(supersig.Context, supersig.Address) bool
}

// MultiAuth accepts the union of the conditions of its members.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth combines authenticators. Conditions keep the order of the
// arguments.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

func (m MultiAuth) GetConditions(ctx supersig.Context) []supersig.Condition {
	var res []supersig.Condition
	for _, a := range m {
		res = append(res, a.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx supersig.Context, addr supersig.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first authorizing condition or nil.
func MainSigner(ctx supersig.Context, auth Authenticator) supersig.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}

// RequireAddress returns ErrUnauthorized unless addr authorized the
// operation. who names the missing party in the error.
func RequireAddress(ctx supersig.Context, auth Authenticator, addr supersig.Address, who string) error {
	if addr == nil {
		return errors.Wrapf(errors.ErrUnauthorized, "%s not set", who)
	}
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s authorization missing", who)
	}
	return nil
}
