package bank

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/weavetest/assert"
)

func TestSendHandler(t *testing.T) {
	owner := weavetest.NewCondition()
	dest := weavetest.NewAddress()

	cases := map[string]struct {
		signer   supersig.Condition
		msg      supersig.Msg
		wantErr  *errors.Error
		wantFree uint64
	}{
		"successful send": {
			signer:   owner,
			msg:      &SendMsg{Source: owner.Address(), Destination: dest, Amount: 40},
			wantFree: 40,
		},
		"source must authorize": {
			signer:  weavetest.NewCondition(),
			msg:     &SendMsg{Source: owner.Address(), Destination: dest, Amount: 40},
			wantErr: errors.ErrUnauthorized,
		},
		"insufficient funds": {
			signer:  owner,
			msg:     &SendMsg{Source: owner.Address(), Destination: dest, Amount: 101},
			wantErr: errors.ErrInsufficientAmount,
		},
		"invalid message": {
			signer:  owner,
			msg:     &SendMsg{Source: owner.Address(), Amount: 1},
			wantErr: errors.ErrInput,
		},
		"zero amount": {
			signer:  owner,
			msg:     &SendMsg{Source: owner.Address(), Destination: dest},
			wantErr: errors.ErrAmount,
		},
		"wrong message type": {
			signer:  owner,
			msg:     &otherMsg{},
			wantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			c := NewController()
			assert.Nil(t, c.Issue(db, owner.Address(), 100))

			h := NewSendHandler(&weavetest.Auth{Signer: tc.signer}, c)
			res, err := h.Deliver(context.Background(), db, tc.msg)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, 1, len(res.Events))
			assert.Equal(t, "transfer", res.Events[0].Type)
			assertBalance(t, db, c, dest, tc.wantFree, 0)
		})
	}
}

type otherMsg struct{}

func (otherMsg) Path() string    { return "other" }
func (otherMsg) Validate() error { return nil }

func TestGenesis(t *testing.T) {
	a, b := weavetest.NewAddress(), weavetest.NewAddress()
	genesis := map[string]interface{}{
		"bank": []GenesisAccount{
			{Address: a, Amount: 10},
			{Address: b, Amount: 20},
		},
	}
	raw, err := json.Marshal(genesis)
	assert.Nil(t, err)
	var opts supersig.Options
	assert.Nil(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	c := NewController()
	assertBalance(t, db, c, a, 10, 0)
	assertBalance(t, db, c, b, 20, 0)

	var bad supersig.Options
	assert.Nil(t, json.Unmarshal([]byte(`{"bank": [{"address": "", "amount": 1}]}`), &bad))
	assert.IsErr(t, errors.ErrInput, Initializer{}.FromGenesis(bad, store.MemStore()))
}
