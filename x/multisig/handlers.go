package multisig

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/gconf"
	"github.com/iov-one/supersig/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r supersig.Registry, auth x.Authenticator, ledger Ledger) {
	s := newState(ledger)
	r.Handle(pathAddMemberMsg, AddMemberHandler{auth: auth, state: s})
	r.Handle(pathRemoveMemberMsg, RemoveMemberHandler{auth: auth, state: s})
	r.Handle(pathSetThresholdMsg, SetThresholdHandler{auth: auth, state: s})
	r.Handle(pathDissolveGroupMsg, DissolveGroupHandler{auth: auth, state: s})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(confPkg, &Configuration{}, auth))
}

// AddMemberHandler adds a member to a group. It must be authorized by the
// group account.
type AddMemberHandler struct {
	auth  x.Authenticator
	state state
}

var _ supersig.Handler = AddMemberHandler{}

func (h AddMemberHandler) Deliver(ctx supersig.Context, db supersig.KVStore, m supersig.Msg) (*supersig.DeliverResult, error) {
	msg, ok := m.(*AddMemberMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	g, err := loadAuthorizedGroup(ctx, db, h.auth, h.state, msg, msg.GroupID)
	if err != nil {
		return nil, err
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if err := h.state.addMember(db, conf, g, msg.Member); err != nil {
		return nil, err
	}
	return &supersig.DeliverResult{
		Events: []supersig.Event{
			supersig.NewEvent("member_added",
				"group", formatGroupID(g.ID),
				"member", msg.Member,
				"members", len(g.Members),
			),
		},
	}, nil
}

// RemoveMemberHandler removes a member from a group together with its
// approvals.
type RemoveMemberHandler struct {
	auth  x.Authenticator
	state state
}

var _ supersig.Handler = RemoveMemberHandler{}

func (h RemoveMemberHandler) Deliver(ctx supersig.Context, db supersig.KVStore, m supersig.Msg) (*supersig.DeliverResult, error) {
	msg, ok := m.(*RemoveMemberMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	g, err := loadAuthorizedGroup(ctx, db, h.auth, h.state, msg, msg.GroupID)
	if err != nil {
		return nil, err
	}
	if err := h.state.removeMember(db, g, msg.Member, msg.Threshold); err != nil {
		return nil, err
	}
	return &supersig.DeliverResult{
		Events: []supersig.Event{
			supersig.NewEvent("member_removed",
				"group", formatGroupID(g.ID),
				"member", msg.Member,
				"threshold", g.Threshold,
			),
		},
	}, nil
}

// SetThresholdHandler changes the threshold of a group.
type SetThresholdHandler struct {
	auth  x.Authenticator
	state state
}

var _ supersig.Handler = SetThresholdHandler{}

func (h SetThresholdHandler) Deliver(ctx supersig.Context, db supersig.KVStore, m supersig.Msg) (*supersig.DeliverResult, error) {
	msg, ok := m.(*SetThresholdMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	g, err := loadAuthorizedGroup(ctx, db, h.auth, h.state, msg, msg.GroupID)
	if err != nil {
		return nil, err
	}
	if err := h.state.setThreshold(db, g, msg.Threshold); err != nil {
		return nil, err
	}
	return &supersig.DeliverResult{
		Events: []supersig.Event{
			supersig.NewEvent("threshold_changed",
				"group", formatGroupID(g.ID),
				"threshold", g.Threshold,
			),
		},
	}, nil
}

// DissolveGroupHandler deletes a group, releasing every deposit and
// sending the group account balance to the beneficiary.
type DissolveGroupHandler struct {
	auth  x.Authenticator
	state state
}

var _ supersig.Handler = DissolveGroupHandler{}

func (h DissolveGroupHandler) Deliver(ctx supersig.Context, db supersig.KVStore, m supersig.Msg) (*supersig.DeliverResult, error) {
	msg, ok := m.(*DissolveGroupMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrMsg, m)
	}
	g, err := loadAuthorizedGroup(ctx, db, h.auth, h.state, msg, msg.GroupID)
	if err != nil {
		return nil, err
	}
	purged, amount, err := h.state.dissolve(db, g, msg.Beneficiary)
	if err != nil {
		return nil, err
	}
	return &supersig.DeliverResult{
		Events: []supersig.Event{
			supersig.NewEvent("group_dissolved",
				"group", formatGroupID(g.ID),
				"beneficiary", msg.Beneficiary,
				"payloads", purged,
				"amount", amount,
			),
		},
	}, nil
}

// loadAuthorizedGroup validates the message group and requires the
// authority of its account.
func loadAuthorizedGroup(ctx supersig.Context, db supersig.KVStore, auth x.Authenticator, s state, msg supersig.Msg, groupID []byte) (*Group, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	g, err := s.groups.GetGroup(db, groupID)
	if err != nil {
		return nil, err
	}
	if err := x.RequireAddress(ctx, auth, g.Account, "group account"); err != nil {
		return nil, err
	}
	return g, nil
}
