// Package exrng provides a random source backed by caller-supplied bytes.
//
// ExternalRNG exists for platforms without a native entropy source and for
// deterministic crypto: the caller fills a fixed buffer (from a hardware
// TRNG, a test vector, a host process) and hands the source to code that
// expects a random number generator.
//
// The package performs no generation of its own. Output is exactly as
// unpredictable as the bytes supplied, so those bytes MUST be real random
// data whenever security matters.
package exrng

import (
	"errors"
	"fmt"
	"io"
)

// Capacity is the maximum number of bytes an ExternalRNG can hold.
const Capacity = 32

var (
	// ErrLengthExceedsCapacity is returned by constructors when the
	// declared length is larger than Capacity.
	ErrLengthExceedsCapacity = errors.New("exrng: declared length exceeds capacity")

	// ErrNegativeLength is returned by New for a negative declared length.
	ErrNegativeLength = errors.New("exrng: negative declared length")

	// ErrScalarDraw is the panic value of Uint32 and Uint64.
	ErrScalarDraw = errors.New("exrng: scalar draws are not supported, use Fill")
)

// Source is the randomness capability generic consumers program against.
type Source interface {
	Fill(dest []byte)
	TryFill(dest []byte) error
	Uint32() uint32
	Uint64() uint64
}

// CryptoSource is a Source that declares itself fit for cryptographic use.
type CryptoSource interface {
	Source
	io.Reader
	CryptoSuitable()
}

// ExternalRNG relays a fixed buffer as if it were a live generator.
//
// Requests for more than Len bytes are a caller error and are not checked:
// the result is whatever occupies the buffer past the declared length. Use
// Checked to catch such requests during development.
type ExternalRNG struct {
	buf [Capacity]byte
	n   int
}

var (
	_ CryptoSource = (*ExternalRNG)(nil)
	_ io.Reader    = (*ExternalRNG)(nil)
)

// New returns a source over buf whose first n bytes are valid.
func New(buf [Capacity]byte, n int) (*ExternalRNG, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}
	if n > Capacity {
		return nil, fmt.Errorf("%w: %d > %d", ErrLengthExceedsCapacity, n, Capacity)
	}
	return &ExternalRNG{buf: buf, n: n}, nil
}

// MustNew is like New but panics on error.
func MustNew(buf [Capacity]byte, n int) *ExternalRNG {
	r, err := New(buf, n)
	if err != nil {
		panic(err)
	}
	return r
}

// FromSlice copies b into a new source with declared length len(b).
func FromSlice(b []byte) (*ExternalRNG, error) {
	if len(b) > Capacity {
		return nil, fmt.Errorf("%w: %d > %d", ErrLengthExceedsCapacity, len(b), Capacity)
	}
	var buf [Capacity]byte
	copy(buf[:], b)
	return &ExternalRNG{buf: buf, n: len(b)}, nil
}

// Len returns the declared length.
func (r *ExternalRNG) Len() int { return r.n }

// Cap returns the buffer capacity.
func (r *ExternalRNG) Cap() int { return Capacity }

// Fill copies the first len(dest) stored bytes into dest.
// len(dest) must not exceed Len.
func (r *ExternalRNG) Fill(dest []byte) {
	copy(dest, r.buf[:])
}

// TryFill is Fill for consumers that model generation as fallible.
// It never fails.
func (r *ExternalRNG) TryFill(dest []byte) error {
	r.Fill(dest)
	return nil
}

// Read implements io.Reader with Fill semantics. It always reports len(p)
// bytes read so io.ReadFull callers never loop.
func (r *ExternalRNG) Read(p []byte) (int, error) {
	r.Fill(p)
	return len(p), nil
}

// Uint32 always panics. A fixed buffer has no well-defined way to produce
// scalars without reusing bytes that Fill also hands out.
//
// Deprecated: ExternalRNG does not support scalar draws; use Fill.
func (r *ExternalRNG) Uint32() uint32 {
	panic(ErrScalarDraw)
}

// Uint64 always panics; see Uint32. Because of it, an ExternalRNG passed to
// math/rand/v2.New aborts on the first draw.
//
// Deprecated: ExternalRNG does not support scalar draws; use Fill.
func (r *ExternalRNG) Uint64() uint64 {
	panic(ErrScalarDraw)
}

// CryptoSuitable marks the source as fit for cryptographic use on behalf of
// whoever supplied the buffer.
func (r *ExternalRNG) CryptoSuitable() {}
