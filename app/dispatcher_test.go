package app

import (
	"context"
	"testing"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	codec := NewCodec()
	codec.RegisterMsg(&testMsg{}, "test/msg")
	codec.Seal()

	msg := &testMsg{Route: "test/path", Data: []byte("payload")}
	raw, err := codec.Encode(msg)
	require.NoError(t, err)

	got, err := codec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	// encoding is deterministic
	assert.Equal(t, raw, codec.MustEncode(msg))

	_, err = codec.Decode([]byte("not a message"))
	assert.True(t, ErrDecode.Is(err))
	_, err = codec.Decode(nil)
	assert.True(t, ErrDecode.Is(err))
}

func TestDispatcher(t *testing.T) {
	codec := NewCodec()
	codec.RegisterMsg(&testMsg{}, "test/msg")

	ok := &weavetest.Handler{
		Key:           []byte("touched"),
		Value:         []byte("yes"),
		DeliverResult: supersig.DeliverResult{Log: "done"},
	}
	failing := &weavetest.Handler{DeliverErr: errors.ErrUnauthorized}
	panicking := &weavetest.Handler{Panic: "boom"}

	r := NewRouter()
	r.Handle("ok", ok)
	r.Handle("fail", failing)
	r.Handle("panic", panicking)
	d := NewDispatcher(codec, r)

	cases := map[string]struct {
		payload []byte
		wantErr *errors.Error
		wantLog string
	}{
		"delivered": {
			payload: codec.MustEncode(&testMsg{Route: "ok"}),
			wantLog: "done",
		},
		"handler error is returned": {
			payload: codec.MustEncode(&testMsg{Route: "fail"}),
			wantErr: errors.ErrUnauthorized,
		},
		"panic is recovered": {
			payload: codec.MustEncode(&testMsg{Route: "panic"}),
			wantErr: errors.ErrPanic,
		},
		"unknown path": {
			payload: codec.MustEncode(&testMsg{Route: "nowhere"}),
			wantErr: ErrNoSuchPath,
		},
		"invalid message": {
			payload: codec.MustEncode(&testMsg{}),
			wantErr: errors.ErrEmpty,
		},
		"garbage": {
			payload: []byte{0xde, 0xad, 0xbe, 0xef},
			wantErr: ErrDecode,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			res, err := d.Execute(context.Background(), db, tc.payload)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantLog, res.Log)
			}
		})
	}
}
