package app

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
)

type testMsg struct {
	Route string
	Data  []byte
}

var _ supersig.Msg = (*testMsg)(nil)

func (m *testMsg) Path() string { return m.Route }

func (m *testMsg) Validate() error {
	if m.Route == "" {
		return errors.Wrap(errors.ErrEmpty, "route")
	}
	return nil
}

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts supersig.Options, kv supersig.KVStore) error {
	var value string
	if err := opts.ReadOptions(dummyKey, &value); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return kv.Set([]byte(dummyKey), []byte(value))
}
