package generator

import (
	"fmt"

	"exrng"
)

// External measures an exrng.ExternalRNG. Requests larger than the declared
// length are served by repeating Fill calls of at most Len bytes, so the
// output is the supplied buffer tiled end to end and carries no more
// entropy than the buffer itself.
type External struct {
	rng *exrng.ExternalRNG
}

// NewExternal wraps seed, which must fit in exrng.Capacity bytes.
func NewExternal(seed []byte) (*External, error) {
	rng, err := exrng.FromSlice(seed)
	if err != nil {
		return nil, err
	}
	return &External{rng: rng}, nil
}

// Name returns the generator name
func (e *External) Name() string {
	return "External Buffer"
}

// GenerateBytes tiles the external buffer into numBytes of output.
func (e *External) GenerateBytes(numBytes int) ([]byte, error) {
	chunk := e.rng.Len()
	if numBytes > 0 && chunk == 0 {
		return nil, fmt.Errorf("external buffer is empty, cannot produce %d bytes", numBytes)
	}

	result := make([]byte, numBytes)
	for off := 0; off < numBytes; off += chunk {
		end := min(off+chunk, numBytes)
		if err := e.rng.TryFill(result[off:end]); err != nil {
			return nil, err
		}
	}
	return result, nil
}
