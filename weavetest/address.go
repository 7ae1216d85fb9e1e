package weavetest

import (
	"testing"

	"github.com/iov-one/supersig"
)

// DecodeAddr parses a fixed address of a test fixture, in any form
// supersig.ParseAddress accepts. It fails the test on an invalid or empty
// address.
func DecodeAddr(t testing.TB, enc string) supersig.Address {
	t.Helper()
	addr, err := supersig.ParseAddress(enc)
	if err != nil {
		t.Fatalf("cannot parse address %q: %s", enc, err)
	}
	if addr == nil {
		t.Fatal("empty address")
	}
	return addr
}
