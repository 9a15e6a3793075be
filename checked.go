package exrng

import (
	"errors"
	"fmt"
)

// ErrContractViolation is wrapped by the panic value of CheckedRNG when a
// request exceeds the declared length.
var ErrContractViolation = errors.New("exrng: request exceeds declared length")

// CheckedRNG wraps an ExternalRNG and panics on oversized requests instead
// of leaking bytes past the declared length.
type CheckedRNG struct {
	src *ExternalRNG
}

var _ CryptoSource = (*CheckedRNG)(nil)

// Checked returns a bounds-checking view of src.
func Checked(src *ExternalRNG) *CheckedRNG {
	return &CheckedRNG{src: src}
}

func (c *CheckedRNG) check(m int) {
	if m > c.src.n {
		panic(fmt.Errorf("%w: requested %d, declared %d", ErrContractViolation, m, c.src.n))
	}
}

// Len returns the declared length of the wrapped source.
func (c *CheckedRNG) Len() int { return c.src.n }

// Fill copies len(dest) bytes, panicking if that exceeds the declared length.
func (c *CheckedRNG) Fill(dest []byte) {
	c.check(len(dest))
	c.src.Fill(dest)
}

// TryFill is Fill with an always-nil error.
func (c *CheckedRNG) TryFill(dest []byte) error {
	c.Fill(dest)
	return nil
}

// Read implements io.Reader with Fill semantics.
func (c *CheckedRNG) Read(p []byte) (int, error) {
	c.Fill(p)
	return len(p), nil
}

// Uint32 always panics, like ExternalRNG.Uint32.
//
// Deprecated: CheckedRNG does not support scalar draws; use Fill.
func (c *CheckedRNG) Uint32() uint32 { return c.src.Uint32() }

// Uint64 always panics, like ExternalRNG.Uint64.
//
// Deprecated: CheckedRNG does not support scalar draws; use Fill.
func (c *CheckedRNG) Uint64() uint64 { return c.src.Uint64() }

// CryptoSuitable marks the wrapper as fit for cryptographic use.
func (c *CheckedRNG) CryptoSuitable() {}
