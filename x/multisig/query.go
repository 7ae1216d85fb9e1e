package multisig

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

// PayloadState describes a payload as seen by the queries.
type PayloadState struct {
	Status    Status
	Approvals int
	Threshold uint32
	Deposit   uint64
	// Receipt is set for resolved payloads.
	Receipt *Receipt
}

// Group returns the group with given ID.
func (e *Engine) Group(db supersig.ReadOnlyKVStore, groupID []byte) (*Group, error) {
	return e.state.groups.GetGroup(db, groupID)
}

// GroupAccount returns the account address of the group. It does not need
// the group to exist.
func (e *Engine) GroupAccount(groupID []byte) supersig.Address {
	return GroupAccount(groupID)
}

// GroupsOf returns the IDs of the groups the address is a member of.
func (e *Engine) GroupsOf(db supersig.ReadOnlyKVStore, member supersig.Address) ([][]byte, error) {
	return e.state.members.GroupsOf(db, member)
}

// Payloads returns the live payloads of the group in hash order.
func (e *Engine) Payloads(db supersig.ReadOnlyKVStore, groupID []byte) ([]*Payload, error) {
	return e.state.payloads.ByGroup(db, groupID)
}

// Approvals returns the approval set of a live payload.
func (e *Engine) Approvals(db supersig.ReadOnlyKVStore, groupID, hash []byte) (*ApprovalSet, error) {
	return e.state.approvals.GetApprovals(db, groupID, hash)
}

// Receipt returns the outcome of the last resolved payload with the given
// hash, or ErrNotFound.
func (e *Engine) Receipt(db supersig.ReadOnlyKVStore, groupID, hash []byte) (*Receipt, error) {
	return e.state.receipts.GetReceipt(db, groupID, hash)
}

// PayloadState returns the state of a live or resolved payload.
func (e *Engine) PayloadState(db supersig.ReadOnlyKVStore, groupID, hash []byte) (*PayloadState, error) {
	g, err := e.state.groups.GetGroup(db, groupID)
	if err != nil {
		return nil, err
	}
	p, err := e.state.payloads.GetPayload(db, groupID, hash)
	switch {
	case err == nil:
		approvals, err := e.state.approvals.GetApprovals(db, groupID, hash)
		if err != nil {
			return nil, err
		}
		st := &PayloadState{
			Status:    StatusPending,
			Approvals: approvals.Count(),
			Threshold: g.Threshold,
			Deposit:   p.Deposit,
		}
		if st.Approvals >= int(g.Threshold) {
			st.Status = StatusApproved
		}
		return st, nil
	case !ErrPayloadNotFound.Is(err):
		return nil, err
	}

	r, err := e.state.receipts.GetReceipt(db, groupID, hash)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrPayloadNotFound, "hash %X", hash)
	case err != nil:
		return nil, err
	}
	return &PayloadState{
		Status:    r.Status,
		Threshold: g.Threshold,
		Receipt:   r,
	}, nil
}

// TotalDeposits returns the sum of the deposits of all live payloads of
// the group.
func (e *Engine) TotalDeposits(db supersig.ReadOnlyKVStore, groupID []byte) (uint64, error) {
	payloads, err := e.state.payloads.ByGroup(db, groupID)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, p := range payloads {
		if total+p.Deposit < total {
			return 0, errors.Wrap(ErrArithmeticOverflow, "total deposits")
		}
		total += p.Deposit
	}
	return total, nil
}
