package multisig

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

// state bundles the buckets of the module together with the ledger
// holding the deposits. It is shared by the engine and the handlers of
// the dispatched messages.
type state struct {
	groups    GroupBucket
	payloads  PayloadBucket
	approvals ApprovalBucket
	receipts  ReceiptBucket
	members   MemberIndex
	ledger    Ledger
}

func newState(ledger Ledger) state {
	return state{
		groups:    NewGroupBucket(),
		payloads:  NewPayloadBucket(),
		approvals: NewApprovalBucket(),
		receipts:  NewReceiptBucket(),
		members:   NewMemberIndex(),
		ledger:    ledger,
	}
}

func (s state) createGroup(db supersig.KVStore, conf *Configuration, founders []supersig.Address, threshold uint32, height int64) (*Group, error) {
	for i, f := range founders {
		if err := f.Validate(); err != nil {
			return nil, errors.Wrapf(err, "founder %d", i)
		}
	}
	members := normalizeAddresses(founders)
	if len(members) > int(conf.MaxMembers) {
		return nil, errors.Wrapf(errors.ErrInput, "%d members, at most %d allowed", len(members), conf.MaxMembers)
	}
	if threshold == 0 || int(threshold) > len(members) {
		return nil, errors.Wrapf(ErrInvalidThreshold, "%d of %d founders", threshold, len(members))
	}

	id, err := s.groups.NextID(db)
	if err != nil {
		return nil, err
	}
	g := &Group{
		ID:        id,
		Account:   GroupAccount(id),
		Members:   members,
		Threshold: threshold,
		CreatedAt: height,
	}
	if err := s.groups.Put(db, id, g); err != nil {
		return nil, errors.Wrap(err, "save group")
	}
	for _, m := range members {
		if err := s.members.add(db, m, id); err != nil {
			return nil, errors.Wrap(err, "index member")
		}
	}
	return g, nil
}

func (s state) addMember(db supersig.KVStore, conf *Configuration, g *Group, member supersig.Address) error {
	if g.HasMember(member) {
		return errors.Wrapf(ErrAlreadyMember, "%s", member)
	}
	if len(g.Members)+1 > int(conf.MaxMembers) {
		return errors.Wrapf(errors.ErrModel, "group is limited to %d members", conf.MaxMembers)
	}
	g.Members = insertAddress(g.Members, member)
	if err := s.groups.Put(db, g.ID, g); err != nil {
		return errors.Wrap(err, "save group")
	}
	return s.members.add(db, member, g.ID)
}

// removeMember drops the member from the group together with all its
// approvals of the group payloads. A zero threshold keeps the current one,
// which must still be satisfiable by the remaining members.
func (s state) removeMember(db supersig.KVStore, g *Group, member supersig.Address, threshold uint32) error {
	if !g.HasMember(member) {
		return errors.Wrapf(ErrNotAMember, "%s", member)
	}
	if len(g.Members) == 1 {
		return errors.Wrap(ErrLastMemberRemoval, "dissolve the group instead")
	}
	if threshold == 0 {
		threshold = g.Threshold
	}
	if int(threshold) > len(g.Members)-1 {
		return errors.Wrapf(ErrThresholdExceedsMembers, "%d of %d remaining members", threshold, len(g.Members)-1)
	}

	g.Members, _ = deleteAddress(g.Members, member)
	g.Threshold = threshold
	if err := s.groups.Put(db, g.ID, g); err != nil {
		return errors.Wrap(err, "save group")
	}
	if err := s.members.remove(db, member, g.ID); err != nil {
		return errors.Wrap(err, "unindex member")
	}
	return s.purgeApprovals(db, g.ID, member)
}

func (s state) setThreshold(db supersig.KVStore, g *Group, threshold uint32) error {
	if threshold == 0 {
		return errors.Wrap(ErrInvalidThreshold, "zero")
	}
	if int(threshold) > len(g.Members) {
		return errors.Wrapf(ErrThresholdExceedsMembers, "%d of %d members", threshold, len(g.Members))
	}
	g.Threshold = threshold
	return s.groups.Put(db, g.ID, g)
}

// dissolve releases every deposit of the group, sends the free balance of
// the group account to the beneficiary and deletes all records of the
// group. It returns the number of purged payloads and the amount sent.
func (s state) dissolve(db supersig.KVStore, g *Group, beneficiary supersig.Address) (int, uint64, error) {
	payloads, err := s.payloads.ByGroup(db, g.ID)
	if err != nil {
		return 0, 0, errors.Wrap(err, "list payloads")
	}
	for _, p := range payloads {
		if _, err := s.purgePayload(db, g.ID, p.Hash); err != nil {
			return 0, 0, err
		}
	}
	receipts, err := s.receipts.Keys(db, g.ID)
	if err != nil {
		return 0, 0, errors.Wrap(err, "list receipts")
	}
	for _, key := range receipts {
		if err := s.receipts.Delete(db, key); err != nil {
			return 0, 0, errors.Wrap(err, "delete receipt")
		}
	}
	for _, m := range g.Members {
		if err := s.members.remove(db, m, g.ID); err != nil {
			return 0, 0, errors.Wrap(err, "unindex member")
		}
	}

	free, _, err := s.ledger.Balance(db, g.Account)
	if err != nil {
		return 0, 0, errors.Wrap(err, "group account balance")
	}
	if free > 0 {
		if err := TransferFromGroupAccount(db, s.ledger, g.ID, beneficiary, free); err != nil {
			return 0, 0, err
		}
	}
	if err := s.groups.Delete(db, g.ID); err != nil {
		return 0, 0, errors.Wrap(err, "delete group")
	}
	return len(payloads), free, nil
}
