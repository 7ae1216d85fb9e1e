package multisig

import (
	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/gconf"
)

const confPkg = "multisig"

// Configuration holds the parameters of the module. It is stored once and
// can be patched by its owner with UpdateConfigurationMsg.
type Configuration struct {
	// Owner is allowed to update the configuration. Usually a group
	// account so that updates are themselves approved payloads.
	Owner supersig.Address `json:"owner"`
	// BaseDeposit is reserved for every payload regardless of its size.
	BaseDeposit uint64 `json:"base_deposit"`
	// ByteDeposit is reserved for every byte of the payload.
	ByteDeposit    uint64         `json:"byte_deposit"`
	MaxMembers     int32          `json:"max_members"`
	MaxPayloadSize int32          `json:"max_payload_size"`
	ApprovalPolicy ApprovalPolicy `json:"approval_policy"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// DefaultConfiguration is used when the genesis does not configure the
// module.
func DefaultConfiguration() Configuration {
	return Configuration{
		BaseDeposit:    1000,
		ByteDeposit:    1000,
		MaxMembers:     100,
		MaxPayloadSize: 64 * 1024,
		ApprovalPolicy: PolicyExplicit,
	}
}

func (c *Configuration) Validate() error {
	if len(c.Owner) != 0 {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if c.MaxMembers <= 0 {
		return errors.Wrap(errors.ErrModel, "max members must be positive")
	}
	if c.MaxPayloadSize <= 0 {
		return errors.Wrap(errors.ErrModel, "max payload size must be positive")
	}
	switch c.ApprovalPolicy {
	case PolicyUnset, PolicyExplicit, PolicySubmitterApproves:
	default:
		return errors.Wrapf(errors.ErrModel, "unknown approval policy %d", c.ApprovalPolicy)
	}
	return nil
}

func (c *Configuration) GetOwner() supersig.Address {
	return c.Owner
}

// LoadConfiguration returns the stored configuration.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// SaveConfiguration validates and stores the configuration.
func SaveConfiguration(db gconf.Store, conf *Configuration) error {
	return gconf.Save(db, confPkg, conf)
}
