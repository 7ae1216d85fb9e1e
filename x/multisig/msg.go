package multisig

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

const (
	pathAddMemberMsg           = "multisig/add_member"
	pathRemoveMemberMsg        = "multisig/remove_member"
	pathSetThresholdMsg        = "multisig/set_threshold"
	pathDissolveGroupMsg       = "multisig/dissolve"
	pathUpdateConfigurationMsg = "multisig/update_configuration"
)

// RegisterCodec registers the messages of this package so that they can
// be encoded into payloads.
func RegisterCodec(r supersig.MsgRegistry) {
	r.RegisterMsg(&AddMemberMsg{}, "multisig/AddMemberMsg")
	r.RegisterMsg(&RemoveMemberMsg{}, "multisig/RemoveMemberMsg")
	r.RegisterMsg(&SetThresholdMsg{}, "multisig/SetThresholdMsg")
	r.RegisterMsg(&DissolveGroupMsg{}, "multisig/DissolveGroupMsg")
	r.RegisterMsg(&UpdateConfigurationMsg{}, "multisig/UpdateConfigurationMsg")
}

// AddMemberMsg adds a member to a group.
type AddMemberMsg struct {
	GroupID []byte
	Member  supersig.Address
}

var _ supersig.Msg = (*AddMemberMsg)(nil)

func (AddMemberMsg) Path() string {
	return pathAddMemberMsg
}

func (m *AddMemberMsg) Validate() error {
	if err := validateGroupID(m.GroupID); err != nil {
		return err
	}
	return errors.Wrap(m.Member.Validate(), "member")
}

// RemoveMemberMsg removes a member from a group. A zero Threshold keeps
// the current threshold of the group.
type RemoveMemberMsg struct {
	GroupID   []byte
	Member    supersig.Address
	Threshold uint32
}

var _ supersig.Msg = (*RemoveMemberMsg)(nil)

func (RemoveMemberMsg) Path() string {
	return pathRemoveMemberMsg
}

func (m *RemoveMemberMsg) Validate() error {
	if err := validateGroupID(m.GroupID); err != nil {
		return err
	}
	return errors.Wrap(m.Member.Validate(), "member")
}

// SetThresholdMsg changes the approval threshold of a group.
type SetThresholdMsg struct {
	GroupID   []byte
	Threshold uint32
}

var _ supersig.Msg = (*SetThresholdMsg)(nil)

func (SetThresholdMsg) Path() string {
	return pathSetThresholdMsg
}

func (m *SetThresholdMsg) Validate() error {
	if err := validateGroupID(m.GroupID); err != nil {
		return err
	}
	if m.Threshold == 0 {
		return errors.Wrap(ErrInvalidThreshold, "zero")
	}
	return nil
}

// DissolveGroupMsg deletes a group. Every live deposit is released and the
// free balance of the group account is sent to the beneficiary.
type DissolveGroupMsg struct {
	GroupID     []byte
	Beneficiary supersig.Address
}

var _ supersig.Msg = (*DissolveGroupMsg)(nil)

func (DissolveGroupMsg) Path() string {
	return pathDissolveGroupMsg
}

func (m *DissolveGroupMsg) Validate() error {
	if err := validateGroupID(m.GroupID); err != nil {
		return err
	}
	if err := m.Beneficiary.Validate(); err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	// Nothing controls the account of a dissolved group.
	if m.Beneficiary.Equals(GroupAccount(m.GroupID)) {
		return errors.Wrap(errors.ErrInput, "beneficiary is the dissolved group account")
	}
	return nil
}

// UpdateConfigurationMsg patches the module configuration. Zero value
// fields of the patch are ignored.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ supersig.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	if len(m.Patch.Owner) != 0 {
		if err := m.Patch.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if m.Patch.MaxMembers < 0 || m.Patch.MaxPayloadSize < 0 {
		return errors.Wrap(errors.ErrMsg, "negative limit")
	}
	return nil
}

func validateGroupID(id []byte) error {
	if len(id) != GroupIDLength {
		return errors.Wrapf(errors.ErrInput, "invalid group id length %d", len(id))
	}
	return nil
}
