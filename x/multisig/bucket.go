package multisig

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/orm"
)

// GroupBucket stores groups under their sequence ID.
type GroupBucket struct {
	orm.Bucket
	seq orm.Sequence
}

// NewGroupBucket returns a bucket for groups with its ID sequence.
func NewGroupBucket() GroupBucket {
	b := orm.NewBucket("msiggroup")
	return GroupBucket{
		Bucket: b,
		seq:    b.Sequence("id"),
	}
}

// NextID allocates a new group ID.
func (b GroupBucket) NextID(db supersig.KVStore) ([]byte, error) {
	id, err := b.seq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire ID")
	}
	return id, nil
}

// GetGroup returns the group with given ID or ErrNotFound.
func (b GroupBucket) GetGroup(db supersig.ReadOnlyKVStore, id []byte) (*Group, error) {
	var g Group
	if err := b.One(db, id, &g); err != nil {
		return nil, errors.Wrapf(err, "group %s", formatGroupID(id))
	}
	return &g, nil
}

// PayloadBucket stores payloads under the (group, hash) key.
type PayloadBucket struct {
	orm.Bucket
}

func NewPayloadBucket() PayloadBucket {
	return PayloadBucket{Bucket: orm.NewBucket("msigpayload")}
}

// GetPayload returns the live payload or ErrPayloadNotFound.
func (b PayloadBucket) GetPayload(db supersig.ReadOnlyKVStore, groupID, hash []byte) (*Payload, error) {
	var p Payload
	if err := b.One(db, payloadKey(groupID, hash), &p); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(ErrPayloadNotFound, "hash %X", hash)
		}
		return nil, err
	}
	return &p, nil
}

// ByGroup returns all live payloads of a group in hash order.
func (b PayloadBucket) ByGroup(db supersig.ReadOnlyKVStore, groupID []byte) ([]*Payload, error) {
	var out []*Payload
	err := b.Each(db, groupID, func(_, raw []byte) error {
		var p Payload
		if err := orm.Unmarshal(raw, &p); err != nil {
			return err
		}
		out = append(out, &p)
		return nil
	})
	return out, err
}

// ApprovalBucket stores approval sets under the (group, hash) key.
type ApprovalBucket struct {
	orm.Bucket
}

func NewApprovalBucket() ApprovalBucket {
	return ApprovalBucket{Bucket: orm.NewBucket("msigvote")}
}

// GetApprovals returns the approval set of a live payload.
func (b ApprovalBucket) GetApprovals(db supersig.ReadOnlyKVStore, groupID, hash []byte) (*ApprovalSet, error) {
	var a ApprovalSet
	if err := b.One(db, payloadKey(groupID, hash), &a); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(ErrPayloadNotFound, "no approvals for %X", hash)
		}
		return nil, err
	}
	return &a, nil
}

// ByGroup returns the approval sets of all live payloads of a group in hash
// order.
func (b ApprovalBucket) ByGroup(db supersig.ReadOnlyKVStore, groupID []byte) ([]*ApprovalSet, error) {
	var out []*ApprovalSet
	err := b.Each(db, groupID, func(_, raw []byte) error {
		var a ApprovalSet
		if err := orm.Unmarshal(raw, &a); err != nil {
			return err
		}
		out = append(out, &a)
		return nil
	})
	return out, err
}

// ReceiptBucket stores the outcome of the last resolved payload of every
// (group, hash) key.
type ReceiptBucket struct {
	orm.Bucket
}

func NewReceiptBucket() ReceiptBucket {
	return ReceiptBucket{Bucket: orm.NewBucket("msigrcpt")}
}

// GetReceipt returns the receipt or ErrNotFound.
func (b ReceiptBucket) GetReceipt(db supersig.ReadOnlyKVStore, groupID, hash []byte) (*Receipt, error) {
	var r Receipt
	if err := b.One(db, payloadKey(groupID, hash), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MemberIndex maps a member address to the groups it belongs to.
type MemberIndex struct {
	orm.Bucket
}

func NewMemberIndex() MemberIndex {
	return MemberIndex{Bucket: orm.NewBucket("msigmember")}
}

func (b MemberIndex) add(db supersig.KVStore, member supersig.Address, groupID []byte) error {
	return b.Put(db, memberKey(member, groupID), &membership{Group: groupID})
}

func (b MemberIndex) remove(db supersig.KVStore, member supersig.Address, groupID []byte) error {
	return b.Delete(db, memberKey(member, groupID))
}

// GroupsOf returns the IDs of all groups the address belongs to, in
// ascending order.
func (b MemberIndex) GroupsOf(db supersig.ReadOnlyKVStore, member supersig.Address) ([][]byte, error) {
	if err := member.Validate(); err != nil {
		return nil, err
	}
	keys, err := b.Keys(db, member)
	if err != nil {
		return nil, err
	}
	ids := make([][]byte, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k[len(member):])
	}
	return ids, nil
}

func payloadKey(groupID, hash []byte) []byte {
	key := make([]byte, 0, len(groupID)+len(hash))
	key = append(key, groupID...)
	return append(key, hash...)
}

func memberKey(member supersig.Address, groupID []byte) []byte {
	key := make([]byte, 0, len(member)+len(groupID))
	key = append(key, member...)
	return append(key, groupID...)
}
