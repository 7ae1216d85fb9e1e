package multisig

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/orm"
)

const (
	// GroupIDLength is the size of the sequence value used as a group ID.
	GroupIDLength = 8
	// HashLength is the size of the payload content hash.
	HashLength = 32
)

// GroupCondition returns the condition of the group account. It is
// granted to the context of every operation dispatched on behalf of the
// group.
func GroupCondition(groupID []byte) supersig.Condition {
	return supersig.NewCondition("supersig", "group", groupID)
}

// GroupAccount returns the address of the account controlled by the group
// with the given ID. The address depends only on the ID so anyone can
// compute it without reading the state.
func GroupAccount(groupID []byte) supersig.Address {
	return GroupCondition(groupID).Address()
}

// Group is a set of members controlling a dedicated account.
type Group struct {
	ID      []byte
	Account supersig.Address
	// Members is kept sorted and unique.
	Members   []supersig.Address
	Threshold uint32
	CreatedAt int64
}

var _ orm.Model = (*Group)(nil)

// Validate checks the group invariants.
func (g *Group) Validate() error {
	if len(g.ID) != GroupIDLength {
		return errors.Wrapf(errors.ErrModel, "invalid group id length %d", len(g.ID))
	}
	if !g.Account.Equals(GroupAccount(g.ID)) {
		return errors.Wrap(errors.ErrModel, "account does not match the group id")
	}
	if len(g.Members) == 0 {
		return errors.Wrap(errors.ErrModel, "no members")
	}
	if err := validateAddressSet(g.Members); err != nil {
		return errors.Wrap(err, "members")
	}
	if g.Threshold == 0 {
		return errors.Wrap(ErrInvalidThreshold, "zero")
	}
	if int(g.Threshold) > len(g.Members) {
		return errors.Wrapf(ErrThresholdExceedsMembers, "%d of %d", g.Threshold, len(g.Members))
	}
	return nil
}

// HasMember returns true if addr belongs to the group.
func (g *Group) HasMember(addr supersig.Address) bool {
	return containsAddress(g.Members, addr)
}

// Payload is a proposed operation of a group, backed by a deposit of the
// submitter.
type Payload struct {
	Group       []byte
	Hash        []byte
	Data        []byte
	Submitter   supersig.Address
	Deposit     uint64
	SubmittedAt int64
}

var _ orm.Model = (*Payload)(nil)

func (p *Payload) Validate() error {
	if len(p.Group) != GroupIDLength {
		return errors.Wrap(errors.ErrModel, "group id")
	}
	if len(p.Hash) != HashLength {
		return errors.Wrap(errors.ErrModel, "hash")
	}
	if len(p.Data) == 0 {
		return errors.Wrap(errors.ErrModel, "empty data")
	}
	if !bytes.Equal(HashPayload(p.Data), p.Hash) {
		return errors.Wrap(errors.ErrModel, "hash does not match data")
	}
	if err := p.Submitter.Validate(); err != nil {
		return errors.Wrap(err, "submitter")
	}
	return nil
}

// ApprovalSet holds the members that approved a payload.
type ApprovalSet struct {
	Group []byte
	Hash  []byte
	// Approvers is kept sorted and unique.
	Approvers []supersig.Address
}

var _ orm.Model = (*ApprovalSet)(nil)

func (a *ApprovalSet) Validate() error {
	if len(a.Group) != GroupIDLength {
		return errors.Wrap(errors.ErrModel, "group id")
	}
	if len(a.Hash) != HashLength {
		return errors.Wrap(errors.ErrModel, "hash")
	}
	return validateAddressSet(a.Approvers)
}

// Count returns the number of approvals.
func (a *ApprovalSet) Count() int {
	return len(a.Approvers)
}

// Has returns true if addr approved.
func (a *ApprovalSet) Has(addr supersig.Address) bool {
	return containsAddress(a.Approvers, addr)
}

func (a *ApprovalSet) add(addr supersig.Address) {
	a.Approvers = insertAddress(a.Approvers, addr)
}

// remove returns false if addr was not in the set.
func (a *ApprovalSet) remove(addr supersig.Address) bool {
	var ok bool
	a.Approvers, ok = deleteAddress(a.Approvers, addr)
	return ok
}

// Status is the lifecycle state of a payload.
type Status int32

const (
	StatusUnknown Status = iota
	// StatusPending payloads are waiting for approvals.
	StatusPending
	// StatusApproved payloads reached the threshold but were not executed
	// yet. Execution follows approval synchronously so this state is only
	// observable for payloads whose execution was not attempted.
	StatusApproved
	// StatusExecuted payloads were dispatched successfully.
	StatusExecuted
	// StatusFailed payloads were dispatched and the operation failed.
	StatusFailed
	// StatusWithdrawn payloads were taken back by the submitter.
	StatusWithdrawn
)

var statusNames = []string{"unknown", "pending", "approved", "executed", "failed", "withdrawn"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "invalid"
	}
	return statusNames[s]
}

// Receipt is the terminal state of the last resolved payload stored under
// a (group, hash) key.
type Receipt struct {
	Group  []byte
	Hash   []byte
	Status Status
	Height int64
	Log    string
	// Code is the error code of a failed execution.
	Code uint32
}

var _ orm.Model = (*Receipt)(nil)

func (r *Receipt) Validate() error {
	switch r.Status {
	case StatusExecuted, StatusFailed, StatusWithdrawn:
	default:
		return errors.Wrapf(errors.ErrModel, "invalid receipt status %s", r.Status)
	}
	if len(r.Group) != GroupIDLength {
		return errors.Wrap(errors.ErrModel, "group id")
	}
	if len(r.Hash) != HashLength {
		return errors.Wrap(errors.ErrModel, "hash")
	}
	return nil
}

// membership marks that an address belongs to a group.
type membership struct {
	Group []byte
}

func (m *membership) Validate() error {
	if len(m.Group) != GroupIDLength {
		return errors.Wrap(errors.ErrModel, "group id")
	}
	return nil
}

// ApprovalPolicy decides who counts towards the threshold at submission.
type ApprovalPolicy int32

const (
	// PolicyUnset behaves like PolicyExplicit. It exists because a
	// configuration patch cannot carry zero values.
	PolicyUnset ApprovalPolicy = iota
	// PolicyExplicit requires every approval, the submitter's included, to
	// be cast explicitly.
	PolicyExplicit
	// PolicySubmitterApproves counts the submitter as the first approval.
	PolicySubmitterApproves
)

func (p ApprovalPolicy) submitterApproves() bool {
	return p == PolicySubmitterApproves
}

func validateAddressSet(addrs []supersig.Address) error {
	for i, a := range addrs {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "address %d", i)
		}
		if i > 0 && bytes.Compare(addrs[i-1], a) >= 0 {
			return errors.Wrap(errors.ErrModel, "addresses must be sorted and unique")
		}
	}
	return nil
}

// normalizeAddresses returns a sorted copy of addrs without duplicates.
func normalizeAddresses(addrs []supersig.Address) []supersig.Address {
	var out []supersig.Address
	for _, a := range addrs {
		out = insertAddress(out, a)
	}
	return out
}

func searchAddress(addrs []supersig.Address, addr supersig.Address) int {
	return sort.Search(len(addrs), func(i int) bool {
		return bytes.Compare(addrs[i], addr) >= 0
	})
}

func containsAddress(addrs []supersig.Address, addr supersig.Address) bool {
	i := searchAddress(addrs, addr)
	return i < len(addrs) && addrs[i].Equals(addr)
}

func insertAddress(addrs []supersig.Address, addr supersig.Address) []supersig.Address {
	i := searchAddress(addrs, addr)
	if i < len(addrs) && addrs[i].Equals(addr) {
		return addrs
	}
	out := make([]supersig.Address, 0, len(addrs)+1)
	out = append(out, addrs[:i]...)
	out = append(out, addr.Clone())
	return append(out, addrs[i:]...)
}

func deleteAddress(addrs []supersig.Address, addr supersig.Address) ([]supersig.Address, bool) {
	i := searchAddress(addrs, addr)
	if i == len(addrs) || !addrs[i].Equals(addr) {
		return addrs, false
	}
	out := make([]supersig.Address, 0, len(addrs)-1)
	out = append(out, addrs[:i]...)
	return append(out, addrs[i+1:]...), true
}

// GroupID returns the ID of the group with given sequence number.
func GroupID(n int64) []byte {
	return orm.EncodeSequence(n)
}

// ParseGroupID parses the decimal representation of a group ID.
func ParseGroupID(s string) ([]byte, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return nil, errors.Wrapf(errors.ErrInput, "invalid group id %q", s)
	}
	return GroupID(n), nil
}

func formatGroupID(id []byte) string {
	if len(id) != GroupIDLength {
		return fmt.Sprintf("%X", id)
	}
	return strconv.FormatInt(orm.DecodeSequence(id), 10)
}
