package supersig_test

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCondition(t *testing.T) {
	Convey("Given a group condition", t, func() {
		cond := supersig.NewCondition("multisig", "group", []byte{0, 0, 0, 0, 0, 0, 0, 1})

		Convey("it is valid and parses back", func() {
			So(cond.Validate(), ShouldBeNil)
			ext, typ, data, err := cond.Parse()
			So(err, ShouldBeNil)
			So(ext, ShouldEqual, "multisig")
			So(typ, ShouldEqual, "group")
			So(data, ShouldResemble, []byte{0, 0, 0, 0, 0, 0, 0, 1})
		})

		Convey("it prints its data as hex", func() {
			So(cond.String(), ShouldEqual, "multisig/group/0000000000000001")
		})

		Convey("its address is stable and valid", func() {
			So(cond.Address(), ShouldResemble, cond.Address())
			So(cond.Address().Validate(), ShouldBeNil)
			other := supersig.NewCondition("multisig", "group", []byte{0, 0, 0, 0, 0, 0, 0, 2})
			So(cond.Address().Equals(other.Address()), ShouldBeFalse)
		})

		Convey("it survives a json round trip", func() {
			raw, err := json.Marshal(cond)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `"multisig/group/0000000000000001"`)
			var got supersig.Condition
			So(json.Unmarshal(raw, &got), ShouldBeNil)
			So(got.Equals(cond), ShouldBeTrue)
		})
	})
}

func TestConditionParse(t *testing.T) {
	cases := map[string]struct {
		cond    supersig.Condition
		wantErr *errors.Error
	}{
		"valid":              {cond: supersig.NewCondition("sigs", "ed25519", []byte("key")), wantErr: nil},
		"binary data":        {cond: supersig.NewCondition("sigs", "ed25519", []byte("a\nb")), wantErr: nil},
		"short extension":    {cond: supersig.NewCondition("a", "group", []byte("id")), wantErr: errors.ErrInput},
		"long type":          {cond: supersig.NewCondition("sigs", "averylongtype", []byte("id")), wantErr: errors.ErrInput},
		"missing data":       {cond: supersig.Condition("foo/bar/"), wantErr: errors.ErrInput},
		"missing separators": {cond: supersig.Condition("foobar"), wantErr: errors.ErrInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, _, _, err := tc.cond.Parse()
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
			if !tc.wantErr.Is(tc.cond.Validate()) {
				t.Fatal("Validate and Parse disagree")
			}
		})
	}
}
