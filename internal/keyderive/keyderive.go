// Package keyderive derives signing and agreement keys from any random
// source. Pairing it with an exrng.ExternalRNG makes key generation fully
// determined by the supplied bytes.
//
// Every derivation reads exactly SeedSize bytes, so an external buffer of
// exrng.Capacity bytes is always sufficient.
package keyderive

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// SeedSize is the number of random bytes consumed per derivation.
const SeedSize = 32

// ErrInvalidSignature is returned by Verify.
var ErrInvalidSignature = errors.New("signature verification failed")

// SigningKey is an Ed25519 keypair.
type SigningKey struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// AgreementKey is an X25519 keypair.
type AgreementKey struct {
	Public  [curve25519.PointSize]byte
	Private [curve25519.ScalarSize]byte
}

// Ed25519 reads a seed from rand and expands it into a signing key.
func Ed25519(rand io.Reader) (*SigningKey, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, fmt.Errorf("reading ed25519 seed: %w", err)
	}
	private := ed25519.NewKeyFromSeed(seed)
	return &SigningKey{
		Public:  private.Public().(ed25519.PublicKey),
		Private: private,
	}, nil
}

// X25519 reads a scalar from rand and computes its public point.
func X25519(rand io.Reader) (*AgreementKey, error) {
	var key AgreementKey
	if _, err := io.ReadFull(rand, key.Private[:]); err != nil {
		return nil, fmt.Errorf("reading x25519 scalar: %w", err)
	}
	public, err := curve25519.X25519(key.Private[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("computing x25519 public key: %w", err)
	}
	copy(key.Public[:], public)
	return &key, nil
}

// SharedKey runs X25519 between private and peer, then expands the shared
// secret to size bytes with HKDF-SHA256 bound to info.
func SharedKey(private *AgreementKey, peer [curve25519.PointSize]byte, info []byte, size int) ([]byte, error) {
	secret, err := curve25519.X25519(private.Private[:], peer[:])
	if err != nil {
		return nil, fmt.Errorf("x25519 agreement: %w", err)
	}
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, info), key); err != nil {
		return nil, fmt.Errorf("expanding shared secret: %w", err)
	}
	return key, nil
}

// Subkey reads SeedSize bytes from rand and returns an HKDF-SHA256 stream
// bound to info. Deriving each key through its own info keeps keys that
// share one non-advancing source from sharing secret material.
func Subkey(rand io.Reader, info string) (io.Reader, error) {
	ikm := make([]byte, SeedSize)
	if _, err := io.ReadFull(rand, ikm); err != nil {
		return nil, fmt.Errorf("reading subkey material: %w", err)
	}
	return hkdf.New(sha256.New, ikm, nil, []byte(info)), nil
}

// Sign signs message with key.
func Sign(key *SigningKey, message []byte) []byte {
	return ed25519.Sign(key.Private, message)
}

// Verify checks signature over message.
func Verify(public ed25519.PublicKey, message, signature []byte) error {
	if len(public) != ed25519.PublicKeySize {
		return fmt.Errorf("public key has %d bytes, want %d", len(public), ed25519.PublicKeySize)
	}
	if !ed25519.Verify(public, message, signature) {
		return ErrInvalidSignature
	}
	return nil
}
