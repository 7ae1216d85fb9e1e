package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store"
	"github.com/iov-one/supersig/weavetest"
	"github.com/iov-one/supersig/weavetest/assert"
)

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *myconfig
		WantSaveErr *errors.Error
	}{
		"all fields": {
			Conf: &myconfig{Owner: weavetest.NewAddress(), Num: 852151421, Str: "foobar", Flag: true},
		},
		"zero values": {
			Conf: &myconfig{Owner: weavetest.NewAddress()},
		},
		"invalid address cannot be saved": {
			Conf:        &myconfig{Owner: supersig.Address("too short")},
			WantSaveErr: errors.ErrInput,
		},
		"negative number cannot be saved": {
			Conf:        &myconfig{Owner: weavetest.NewAddress(), Num: -1},
			WantSaveErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got myconfig
			if err := Load(db, "mypkg", &got); err != nil {
				t.Fatalf("cannot load configuration: %s", err)
			}
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var c myconfig
	assert.IsErr(t, errors.ErrNotFound, Load(db, "mypkg", &c))
}

func TestInitConfig(t *testing.T) {
	owner := weavetest.NewAddress()
	ownerJSON, err := json.Marshal(owner)
	assert.Nil(t, err)

	cases := map[string]struct {
		Genesis string
		WantErr *errors.Error
		Want    *myconfig
	}{
		"configuration loaded": {
			Genesis: `{"conf": {"mypkg": {"Owner": ` + string(ownerJSON) + `, "Num": 7, "Str": "x"}}}`,
			Want:    &myconfig{Owner: owner, Num: 7, Str: "x"},
		},
		"missing package section": {
			Genesis: `{"conf": {"other": {}}}`,
			WantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			Genesis: `{"conf": {"mypkg": {"Owner": ` + string(ownerJSON) + `, "Num": -4}}}`,
			WantErr: errors.ErrAmount,
		},
		"malformed configuration": {
			Genesis: `{"conf": {"mypkg": {"Num": "seven"}}}`,
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts supersig.Options
			if err := json.Unmarshal([]byte(tc.Genesis), &opts); err != nil {
				t.Fatalf("cannot parse genesis: %s", err)
			}
			db := store.MemStore()
			var c myconfig
			if err := InitConfig(db, opts, "mypkg", &c); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.Want == nil {
				return
			}
			var got myconfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.Want, &got)
		})
	}
}

type myconfig struct {
	Owner supersig.Address
	Num   int64
	Str   string
	Flag  bool
}

func (c *myconfig) GetOwner() supersig.Address { return c.Owner }

func (c *myconfig) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if c.Num < 0 {
		return errors.Wrap(errors.ErrAmount, "negative number")
	}
	return nil
}
