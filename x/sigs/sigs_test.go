package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/weavetest/assert"
	"golang.org/x/crypto/ed25519"
)

func TestAuthenticate(t *testing.T) {
	a, b := weavetest.NewCondition(), weavetest.NewCondition()
	auth := Authenticate{}

	bg := context.Background()
	assert.Equal(t, 0, len(auth.GetConditions(bg)))
	assert.Equal(t, false, auth.HasAddress(bg, a.Address()))

	ctx := WithSigners(bg, a, b)
	conds := auth.GetConditions(ctx)
	assert.Equal(t, 2, len(conds))
	assert.Equal(t, true, conds[0].Equals(a))
	assert.Equal(t, true, auth.HasAddress(ctx, b.Address()))
	assert.Equal(t, false, auth.HasAddress(ctx, weavetest.NewAddress()))
}

func TestVerify(t *testing.T) {
	key := DevKey("alice")
	pub := key.Public().(ed25519.PublicKey)
	msg := []byte("approve 1")
	sig := ed25519.Sign(key, msg)

	cases := map[string]struct {
		pub     ed25519.PublicKey
		msg     []byte
		sig     []byte
		wantErr *errors.Error
	}{
		"valid signature": {
			pub: pub, msg: msg, sig: sig,
		},
		"other message": {
			pub: pub, msg: []byte("approve 2"), sig: sig,
			wantErr: errors.ErrUnauthorized,
		},
		"other key": {
			pub: DevKey("bert").Public().(ed25519.PublicKey), msg: msg, sig: sig,
			wantErr: errors.ErrUnauthorized,
		},
		"short key": {
			pub: pub[:10], msg: msg, sig: sig,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			cond, err := Verify(tc.pub, tc.msg, tc.sig)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil && !cond.Equals(DevSigner("alice")) {
				t.Fatalf("unexpected condition %s", cond)
			}
		})
	}
}

func TestDevSignerIsStable(t *testing.T) {
	assert.Equal(t, DevSigner("alice"), DevSigner("alice"))
	if DevSigner("alice").Equals(DevSigner("bert")) {
		t.Fatal("names must map to different signers")
	}
	assert.Nil(t, DevSigner("alice").Validate())
}
