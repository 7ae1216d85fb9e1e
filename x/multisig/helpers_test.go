package multisig

import (
	"context"
	"testing"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/app"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/weavetest/assert"
	"github.com/iov-one/supersig/x"
	"github.com/iov-one/supersig/x/bank"
)

// probeMsg is routed to a mock handler. The nonce makes payloads unique.
type probeMsg struct {
	Nonce uint64
}

var _ supersig.Msg = (*probeMsg)(nil)

func (probeMsg) Path() string { return "test/probe" }

func (m *probeMsg) Validate() error { return nil }

var probeKey = []byte("probe")

func testConfiguration() Configuration {
	return Configuration{
		BaseDeposit:    10,
		ByteDeposit:    2,
		MaxMembers:     5,
		MaxPayloadSize: 1024,
		ApprovalPolicy: PolicyExplicit,
	}
}

// fixture wires an engine with a bank ledger and a dispatcher routing the
// multisig, bank and probe messages, the same way a host application does.
type fixture struct {
	t      testing.TB
	db     supersig.CacheableKVStore
	auth   *weavetest.CtxAuth
	bank   bank.Controller
	codec  *app.Codec
	probe  *weavetest.Handler
	sink   *weavetest.EventSink
	engine *Engine
	conf   Configuration
}

func newFixture(t testing.TB, conf Configuration) *fixture {
	t.Helper()

	db := store.MemStore()
	auth := &weavetest.CtxAuth{Key: "auth"}
	ctrl := bank.NewController()

	codec := app.NewCodec()
	RegisterCodec(codec)
	bank.RegisterCodec(codec)
	codec.RegisterMsg(&probeMsg{}, "test/probeMsg")

	handlerAuth := x.ChainAuth(auth, Authenticate{})
	r := app.NewRouter()
	RegisterRoutes(r, handlerAuth, ctrl)
	bank.RegisterRoutes(r, handlerAuth, ctrl)
	probe := &weavetest.Handler{
		Key:           probeKey,
		Value:         []byte("touched"),
		DeliverResult: supersig.DeliverResult{Log: "probed"},
	}
	r.Handle("test/probe", probe)

	sink := &weavetest.EventSink{}
	assert.Nil(t, SaveConfiguration(db, &conf))

	return &fixture{
		t:      t,
		db:     db,
		auth:   auth,
		bank:   ctrl,
		codec:  codec,
		probe:  probe,
		sink:   sink,
		engine: NewEngine(auth, ctrl, app.NewDispatcher(codec, r), sink),
		conf:   conf,
	}
}

// as returns a context of an operation called by the given signer.
func (f *fixture) as(signer supersig.Condition) supersig.Context {
	ctx := supersig.WithHeight(context.Background(), 7)
	return f.auth.SetConditions(ctx, signer)
}

func (f *fixture) fund(addr supersig.Address, amount uint64) {
	f.t.Helper()
	assert.Nil(f.t, f.bank.Issue(f.db, addr, amount))
}

func (f *fixture) balance(addr supersig.Address) (free, reserved uint64) {
	f.t.Helper()
	free, reserved, err := f.bank.Balance(f.db, addr)
	assert.Nil(f.t, err)
	return free, reserved
}

func (f *fixture) encode(msg supersig.Msg) []byte {
	f.t.Helper()
	raw, err := f.codec.Encode(msg)
	assert.Nil(f.t, err)
	return raw
}

func (f *fixture) probePayload(nonce uint64) []byte {
	return f.encode(&probeMsg{Nonce: nonce})
}

func (f *fixture) deposit(data []byte) uint64 {
	f.t.Helper()
	d, err := DepositFor(&f.conf, len(data))
	assert.Nil(f.t, err)
	return d
}

func (f *fixture) probed() bool {
	f.t.Helper()
	val, err := f.db.Get(probeKey)
	assert.Nil(f.t, err)
	return val != nil
}

// members returns n funded member conditions and their addresses.
func (f *fixture) members(n int) ([]supersig.Condition, []supersig.Address) {
	conds := make([]supersig.Condition, n)
	addrs := make([]supersig.Address, n)
	for i := range conds {
		conds[i] = weavetest.NewCondition()
		addrs[i] = conds[i].Address()
		f.fund(addrs[i], 1000000)
	}
	return conds, addrs
}

func (f *fixture) createGroup(founder supersig.Condition, members []supersig.Address, threshold uint32) []byte {
	f.t.Helper()
	id, err := f.engine.CreateGroup(f.as(founder), f.db, members, threshold)
	assert.Nil(f.t, err)
	return id
}

func (f *fixture) submit(signer supersig.Condition, groupID, data []byte) []byte {
	f.t.Helper()
	hash, err := f.engine.SubmitPayload(f.as(signer), f.db, groupID, data)
	assert.Nil(f.t, err)
	return hash
}

func (f *fixture) approve(signer supersig.Condition, groupID, hash []byte) *Execution {
	f.t.Helper()
	exec, err := f.engine.ApprovePayload(f.as(signer), f.db, groupID, hash)
	assert.Nil(f.t, err)
	return exec
}

func (f *fixture) approvals(groupID, hash []byte) int {
	f.t.Helper()
	a, err := f.engine.Approvals(f.db, groupID, hash)
	assert.Nil(f.t, err)
	return a.Count()
}

func (f *fixture) group(groupID []byte) *Group {
	f.t.Helper()
	g, err := f.engine.Group(f.db, groupID)
	assert.Nil(f.t, err)
	return g
}

// assertConservation checks that the deposits of the live payloads of the
// group are exactly the funds reserved from their submitters.
func (f *fixture) assertConservation(groupID []byte, submitters ...supersig.Address) {
	f.t.Helper()
	total, err := f.engine.TotalDeposits(f.db, groupID)
	assert.Nil(f.t, err)
	var reserved uint64
	for _, s := range submitters {
		_, r := f.balance(s)
		reserved += r
	}
	if total != reserved {
		f.t.Fatalf("live deposits %d, reserved %d", total, reserved)
	}
}

// approveAll approves with every signer in order and returns the
// execution triggered by the last one, if any.
func (f *fixture) approveAll(groupID, hash []byte, signers ...supersig.Condition) *Execution {
	f.t.Helper()
	var exec *Execution
	for _, s := range signers {
		if e := f.approve(s, groupID, hash); e != nil {
			exec = e
		}
	}
	return exec
}
