package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind   *Error
		err    error
		wantIs bool
	}{
		"same root":              {kind: ErrNotFound, err: ErrNotFound, wantIs: true},
		"other root":             {kind: ErrNotFound, err: ErrModel, wantIs: false},
		"wrapped root":           {kind: ErrNotFound, err: Wrap(Wrap(ErrNotFound, "group 1"), "load"), wantIs: true},
		"wrapped other root":     {kind: ErrNotFound, err: Wrap(ErrOverflow, "deposit"), wantIs: false},
		"stdlib error":           {kind: ErrNotFound, err: io.EOF, wantIs: false},
		"stdlib wrapping a root": {kind: ErrState, err: fmt.Errorf("payload: %w", ErrState), wantIs: true},
		"pkg/errors wrapping":    {kind: ErrState, err: pkgerrors.Wrap(ErrState, "payload"), wantIs: true},
		"nil kind and nil":       {kind: nil, err: nil, wantIs: true},
		"nil kind and typed nil": {kind: nil, err: (*Error)(nil), wantIs: true},
		"nil kind and an error":  {kind: nil, err: ErrNotFound, wantIs: false},
		"kind and nil":           {kind: ErrNotFound, err: nil, wantIs: false},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantIs {
				t.Fatalf("want %v, got %v", tc.wantIs, got)
			}
		})
	}
}

func TestStdlibInterop(t *testing.T) {
	err := Wrapf(ErrInsufficientAmount, "reserve %d", 120)
	if !stderrors.Is(err, ErrInsufficientAmount) {
		t.Fatal("stdlib Is must see the root error")
	}
	var root *Error
	if !stderrors.As(err, &root) || root != ErrInsufficientAmount {
		t.Fatalf("stdlib As found %v", root)
	}
	if got := pkgerrors.Cause(err); got != ErrInsufficientAmount {
		t.Fatalf("cause is %v", got)
	}
}

func TestWrap(t *testing.T) {
	if err := Wrap(nil, "nothing"); err != nil {
		t.Fatalf("wrapping nil returned %v", err)
	}
	if err := Wrapf(nil, "nothing %d", 1); err != nil {
		t.Fatalf("wrapping nil returned %v", err)
	}
	err := WithType(ErrMsg, &Error{})
	if want := "*errors.Error: invalid message"; err.Error() != want {
		t.Fatalf("want %q, got %q", want, err.Error())
	}
}

func TestRegister(t *testing.T) {
	cases := map[string]uint32{
		"taken":    ErrNotFound.Code(),
		"reserved": internalCode,
	}
	for testName, code := range cases {
		t.Run(testName, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("registering a used code must panic")
				}
			}()
			Register(code, "again")
		})
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want a panic error, got %v", err)
	}
	if want := "boom: panic"; err.Error() != want {
		t.Fatalf("want %q, got %q", want, err.Error())
	}
}
