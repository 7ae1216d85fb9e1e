package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/iov-one/supersig/app"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/std"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/x/multisig"
	"github.com/iov-one/supersig/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *std.Application {
	t.Helper()
	kv, err := std.CommitKVStore("")
	require.NoError(t, err)
	a, err := std.NewApplication(kv, nil, nil)
	require.NoError(t, err)

	gen, err := app.LoadGenesis("testdata/genesis.json")
	require.NoError(t, err)
	assert.Equal(t, "supersig-dev", gen.ChainID)
	require.NoError(t, a.InitChain(gen.AppOptions))
	return a
}

func TestGenesisUsesDevKeys(t *testing.T) {
	a := newTestApp(t)
	accounts := map[string]string{
		"alice": "EB912F308C784774398622C5527BBA8D3D778C9C",
		"bert":  "2E8C7B53C4FFB2841FE9B206CB05DAC7239BFED4",
		"carl":  "4738E4F4559D07397B786FC18A061AAD776C34D6",
	}
	for name, hex := range accounts {
		addr := weavetest.DecodeAddr(t, hex)
		assert.Equal(t, addr, sigs.DevSigner(name).Address(), name)
		free, _, err := a.Bank.Balance(a.ReadStore(), addr)
		require.NoError(t, err)
		assert.EqualValues(t, 100000, free, name)
	}
}

func TestRunScript(t *testing.T) {
	a := newTestApp(t)
	f, err := os.Open("testdata/transfer.jsonl")
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	require.NoError(t, runScript(context.Background(), a, f, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 11)
	assert.Contains(t, lines[0], "group 1")
	assert.Contains(t, lines[4], "failed as expected, code 1041")
	assert.Contains(t, lines[5], "executed")
	assert.Contains(t, lines[9], "executed")

	// init, then one version per successful line
	assert.EqualValues(t, 9, a.LatestVersion().Version)

	db := a.ReadStore()
	gid := multisig.GroupID(1)
	free, _, err := a.Bank.Balance(db, sigs.DevSigner("dave").Address())
	require.NoError(t, err)
	assert.EqualValues(t, 1200, free)
	free, _, err = a.Bank.Balance(db, multisig.GroupAccount(gid))
	require.NoError(t, err)
	assert.EqualValues(t, 3800, free)

	g, err := a.Engine.Group(db, gid)
	require.NoError(t, err)
	assert.Len(t, g.Members, 2)
	assert.False(t, g.HasMember(sigs.DevSigner("carl").Address()))

	for _, name := range []string{"alice", "bert"} {
		_, reserved, err := a.Bank.Balance(db, sigs.DevSigner(name).Address())
		require.NoError(t, err)
		assert.EqualValues(t, 0, reserved, name)
	}

	var state bytes.Buffer
	require.NoError(t, printGroup(&state, a, gid))
	assert.Contains(t, state.String(), "2 of 2")
	assert.Contains(t, state.String(), "3800")
}

func TestRunScriptErrors(t *testing.T) {
	cases := map[string]struct {
		script  string
		wantErr *errors.Error
	}{
		"malformed line": {
			script:  `{"op": `,
			wantErr: errors.ErrInput,
		},
		"unknown operation": {
			script:  `{"op": "vote", "signer": "alice"}`,
			wantErr: errors.ErrInput,
		},
		"missing signer": {
			script:  `{"op": "create", "members": ["alice"], "threshold": 1}`,
			wantErr: errors.ErrEmpty,
		},
		"unexpected failure": {
			script:  `{"op": "create", "signer": "alice", "members": ["alice"], "threshold": 2}`,
			wantErr: multisig.ErrInvalidThreshold,
		},
		"unexpected success": {
			script:  `{"op": "create", "signer": "alice", "members": ["alice"], "threshold": 1, "expect": "invalid"}`,
			wantErr: errors.ErrState,
		},
		"submit without message": {
			script:  "{\"op\": \"create\", \"signer\": \"alice\", \"members\": [\"alice\"], \"threshold\": 1}\n{\"op\": \"submit\", \"signer\": \"alice\", \"group\": 1}",
			wantErr: errors.ErrEmpty,
		},
		"unknown message": {
			script:  `{"op": "send", "signer": "alice", "msg": {"type": "mint"}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			a := newTestApp(t)
			var out bytes.Buffer
			err := runScript(context.Background(), a, strings.NewReader(tc.script), &out)
			require.Error(t, err)
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)
		})
	}
}

func TestResolveAddress(t *testing.T) {
	addr, err := resolveAddress("group:3")
	require.NoError(t, err)
	assert.Equal(t, multisig.GroupAccount(multisig.GroupID(3)), addr)

	addr, err = resolveAddress("alice")
	require.NoError(t, err)
	assert.Equal(t, sigs.DevSigner("alice").Address(), addr)

	addr, err = resolveAddress("hex:EB912F308C784774398622C5527BBA8D3D778C9C")
	require.NoError(t, err)
	assert.Equal(t, sigs.DevSigner("alice").Address(), addr)

	_, err = resolveAddress("")
	assert.True(t, errors.ErrEmpty.Is(err))
	_, err = resolveAddress("group:x")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestAccountCmd(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, AccountCmd(&out, []string{"1"}))
	assert.Contains(t, out.String(), multisig.GroupAccount(multisig.GroupID(1)).String())
	assert.Contains(t, out.String(), "bech32")

	assert.Error(t, AccountCmd(&out, nil))
	assert.Error(t, AccountCmd(&out, []string{"0"}))
}

func TestConfig(t *testing.T) {
	c := Config{Home: "/tmp/h", Journal: "events.db", LogLevel: "info"}
	assert.Equal(t, "/tmp/h/events.db", c.JournalPath())
	c.Journal = "/var/j.db"
	assert.Equal(t, "/var/j.db", c.JournalPath())
	c.Journal = "off"
	assert.Equal(t, "", c.JournalPath())
	assert.Equal(t, "/tmp/h/state", c.StatePath())

	_, err := c.Logger()
	require.NoError(t, err)
	c.LogLevel = "loud"
	_, err = c.Logger()
	assert.Error(t, err)
}
