package multisig

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/weavetest/assert"
)

func TestGenesisInitializer(t *testing.T) {
	a, b, c := weavetest.NewAddress(), weavetest.NewAddress(), weavetest.NewAddress()

	rawGroups := func(groups ...GenesisGroup) json.RawMessage {
		raw, err := json.Marshal(map[string]interface{}{"groups": groups})
		assert.Nil(t, err)
		return raw
	}

	cases := map[string]struct {
		opts       supersig.Options
		wantErr    *errors.Error
		wantConf   Configuration
		wantGroups []GenesisGroup
	}{
		"defaults": {
			opts:     supersig.Options{},
			wantConf: DefaultConfiguration(),
		},
		"configuration and groups": {
			opts: supersig.Options{
				"conf": json.RawMessage(`{"multisig": {
					"base_deposit": 5,
					"byte_deposit": 1,
					"max_members": 3,
					"max_payload_size": 100,
					"approval_policy": 2
				}}`),
				"multisig": rawGroups(
					GenesisGroup{Members: []supersig.Address{a, b}, Threshold: 2},
					GenesisGroup{Members: []supersig.Address{c}, Threshold: 1},
				),
			},
			wantConf: Configuration{
				BaseDeposit:    5,
				ByteDeposit:    1,
				MaxMembers:     3,
				MaxPayloadSize: 100,
				ApprovalPolicy: PolicySubmitterApproves,
			},
			wantGroups: []GenesisGroup{
				{Members: []supersig.Address{a, b}, Threshold: 2},
				{Members: []supersig.Address{c}, Threshold: 1},
			},
		},
		"invalid configuration": {
			opts: supersig.Options{
				"conf": json.RawMessage(`{"multisig": {"max_members": 0, "max_payload_size": 10}}`),
			},
			wantErr: errors.ErrModel,
		},
		"invalid group threshold": {
			opts: supersig.Options{
				"multisig": rawGroups(GenesisGroup{Members: []supersig.Address{a}, Threshold: 2}),
			},
			wantErr: ErrInvalidThreshold,
		},
		"too many members for the configuration": {
			opts: supersig.Options{
				"conf": json.RawMessage(`{"multisig": {"max_members": 1, "max_payload_size": 10}}`),
				"multisig": rawGroups(GenesisGroup{Members: []supersig.Address{a, b}, Threshold: 1}),
			},
			wantErr: errors.ErrInput,
		},
		"malformed groups": {
			opts: supersig.Options{
				"multisig": json.RawMessage(`{"groups": 7}`),
			},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Initializer{}.FromGenesis(tc.opts, db)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}

			conf, err := LoadConfiguration(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantConf, *conf)

			groups := NewGroupBucket()
			for i, want := range tc.wantGroups {
				g, err := groups.GetGroup(db, GroupID(int64(i+1)))
				assert.Nil(t, err)
				assert.Equal(t, want.Threshold, g.Threshold)
				assert.Equal(t, normalizeAddresses(want.Members), g.Members)
				assert.Equal(t, int64(0), g.CreatedAt)
			}
			_, err = groups.GetGroup(db, GroupID(int64(len(tc.wantGroups)+1)))
			assert.IsErr(t, errors.ErrNotFound, err)
		})
	}
}
