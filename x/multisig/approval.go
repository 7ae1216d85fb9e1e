package multisig

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

func (s state) approve(db supersig.KVStore, groupID, hash []byte, member supersig.Address) (*ApprovalSet, error) {
	approvals, err := s.approvals.GetApprovals(db, groupID, hash)
	if err != nil {
		return nil, err
	}
	if approvals.Has(member) {
		return nil, errors.Wrapf(ErrAlreadyApproved, "%s", member)
	}
	approvals.add(member)
	if err := s.approvals.Put(db, payloadKey(groupID, hash), approvals); err != nil {
		return nil, errors.Wrap(err, "save approvals")
	}
	return approvals, nil
}

func (s state) unapprove(db supersig.KVStore, groupID, hash []byte, member supersig.Address) (*ApprovalSet, error) {
	approvals, err := s.approvals.GetApprovals(db, groupID, hash)
	if err != nil {
		return nil, err
	}
	if !approvals.remove(member) {
		return nil, errors.Wrapf(ErrNotApproved, "%s", member)
	}
	if err := s.approvals.Put(db, payloadKey(groupID, hash), approvals); err != nil {
		return nil, errors.Wrap(err, "save approvals")
	}
	return approvals, nil
}

// purgeApprovals removes the member from every approval set of the group.
func (s state) purgeApprovals(db supersig.KVStore, groupID []byte, member supersig.Address) error {
	sets, err := s.approvals.ByGroup(db, groupID)
	if err != nil {
		return errors.Wrap(err, "list approvals")
	}
	for _, a := range sets {
		if !a.remove(member) {
			continue
		}
		if err := s.approvals.Put(db, payloadKey(a.Group, a.Hash), a); err != nil {
			return errors.Wrap(err, "save approvals")
		}
	}
	return nil
}

// nextExecutable returns the first live payload of the group, in hash
// order, whose approvals reach the threshold. It returns nil if there is
// none.
func (s state) nextExecutable(db supersig.ReadOnlyKVStore, g *Group) (*Payload, error) {
	sets, err := s.approvals.ByGroup(db, g.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list approvals")
	}
	for _, a := range sets {
		if a.Count() < int(g.Threshold) {
			continue
		}
		return s.payloads.GetPayload(db, g.ID, a.Hash)
	}
	return nil, nil
}
