package multisig

import (
	"context"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/x"
)

type ctxKey int

const groupAuthorityKey ctxKey = 0

// withGroup grants the authority of the group account to the context of
// a dispatched payload. It is not exported so that only an approved
// payload can act for a group.
func withGroup(ctx supersig.Context, groupID []byte) supersig.Context {
	return context.WithValue(ctx, groupAuthorityKey, GroupCondition(groupID))
}

// Authenticate recognizes the account of the group whose payload is being
// executed. Outside of a payload execution it grants nothing, so handlers
// guarded by it refuse messages that are delivered directly.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the condition of the executing group, if any.
func (Authenticate) GetConditions(ctx supersig.Context) []supersig.Condition {
	cond, ok := ctx.Value(groupAuthorityKey).(supersig.Condition)
	if !ok || len(cond) == 0 {
		return nil
	}
	return []supersig.Condition{cond}
}

// HasAddress reports whether addr is the account of the executing group.
func (a Authenticate) HasAddress(ctx supersig.Context, addr supersig.Address) bool {
	conds := a.GetConditions(ctx)
	return len(conds) == 1 && conds[0].Address().Equals(addr)
}
