package gconf

import (
	"reflect"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/x"
)

// OwnedConfig is a configuration that names the account allowed to change
// it.
type OwnedConfig interface {
	Configuration
	GetOwner() supersig.Address
}

// UpdateConfigurationHandler applies a patch to the configuration of a
// package. The message must be a pointer to a struct whose Patch field is
// of the configuration type. Only the non zero fields of the patch are
// applied.
type UpdateConfigurationHandler struct {
	pkg    string
	config OwnedConfig
	auth   x.Authenticator
}

var _ supersig.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler for the configuration of
// pkg. config is an empty instance of the configuration type, used to
// load the stored value. Updates must be authorized by the current owner.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{pkg: pkg, config: config, auth: auth}
}

func (h UpdateConfigurationHandler) Deliver(ctx supersig.Context, db supersig.KVStore, msg supersig.Msg) (*supersig.DeliverResult, error) {
	current := reflect.New(reflect.TypeOf(h.config).Elem()).Interface().(OwnedConfig)
	if err := Load(db, h.pkg, current); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	if err := x.RequireAddress(ctx, h.auth, current.GetOwner(), "configuration owner"); err != nil {
		return nil, err
	}

	p, err := patchOf(msg)
	if err != nil {
		return nil, err
	}
	fields, err := apply(current, p)
	if err != nil {
		return nil, err
	}
	if err := Save(db, h.pkg, current); err != nil {
		return nil, errors.Wrap(err, "save configuration")
	}
	return &supersig.DeliverResult{
		Events: []supersig.Event{
			supersig.NewEvent("configuration_updated",
				"package", h.pkg,
				"fields", fields,
			),
		},
	}, nil
}

// apply copies the non zero fields of p into dst and returns how many
// were copied.
func apply(dst, p OwnedConfig) (int, error) {
	if reflect.TypeOf(dst) != reflect.TypeOf(p) {
		return 0, errors.Wrapf(errors.ErrMsg, "patch of %T for a %T configuration", p, dst)
	}
	to := reflect.ValueOf(dst).Elem()
	from := reflect.ValueOf(p).Elem()
	var n int
	for i := 0; i < from.NumField(); i++ {
		if f := from.Field(i); !f.IsZero() {
			to.Field(i).Set(f)
			n++
		}
	}
	return n, nil
}

// patchOf validates msg and returns its Patch field.
func patchOf(msg supersig.Msg) (OwnedConfig, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "%T is not a pointer to a struct", msg)
	}
	field := v.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr {
		return nil, errors.Wrapf(errors.ErrInput, "%T has no Patch field", msg)
	}
	if field.IsNil() {
		return nil, errors.Wrap(errors.ErrState, "patch is required")
	}
	p, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "patch of type %s", field.Type())
	}
	return p, nil
}
