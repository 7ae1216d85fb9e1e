package sigs

import (
	"crypto/sha256"

	"github.com/iov-one/supersig"
	"github.com/iov-one/supersig/errors"
	"golang.org/x/crypto/ed25519"
)

const (
	extension = "sigs"
	keyType   = "ed25519"
)

// KeyCondition returns the condition of an ed25519 public key.
func KeyCondition(pub ed25519.PublicKey) supersig.Condition {
	h := sha256.Sum256(pub)
	return supersig.NewCondition(extension, keyType, h[:])
}

// Verify checks the signature of msg and returns the condition of the
// signer.
func Verify(pub ed25519.PublicKey, msg, sig []byte) (supersig.Condition, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "public key of %d bytes", len(pub))
	}
	if !ed25519.Verify(pub, msg, sig) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	return KeyCondition(pub), nil
}

// DevKey derives a key pair from a name. The key is public knowledge and
// must only be used for local testing and scripting.
func DevKey(name string) ed25519.PrivateKey {
	seed := sha256.Sum256([]byte("supersig/dev/" + name))
	return ed25519.NewKeyFromSeed(seed[:])
}

// DevSigner returns the condition of the development key of name.
func DevSigner(name string) supersig.Condition {
	return KeyCondition(DevKey(name).Public().(ed25519.PublicKey))
}
