package multisig

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/gconf"
)

const optKey = "multisig"

// GenesisGroup is used to parse the groups of the genesis file.
type GenesisGroup struct {
	Members   []supersig.Address `json:"members"`
	Threshold uint32             `json:"threshold"`
}

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ supersig.Initializer = Initializer{}

// FromGenesis stores the configuration found under conf.multisig, or the
// default one, and creates the groups listed under multisig.groups. Group
// IDs are assigned in order starting from 1.
func (Initializer) FromGenesis(opts supersig.Options, kv supersig.KVStore) error {
	conf := DefaultConfiguration()
	switch err := gconf.InitConfig(kv, opts, confPkg, &conf); {
	case errors.ErrNotFound.Is(err):
		if err := SaveConfiguration(kv, &conf); err != nil {
			return errors.Wrap(err, "save default configuration")
		}
	case err != nil:
		return err
	}

	var genesis struct {
		Groups []GenesisGroup `json:"groups"`
	}
	if err := opts.ReadOptions(optKey, &genesis); err != nil {
		return errors.Wrapf(errors.ErrInput, "read %q options: %s", optKey, err)
	}
	s := newState(nil)
	for i, g := range genesis.Groups {
		if _, err := s.createGroup(kv, &conf, g.Members, g.Threshold, 0); err != nil {
			return errors.Wrapf(err, "group %d", i)
		}
	}
	return nil
}
