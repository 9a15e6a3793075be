package generator

import (
	"fmt"
	"sync"

	"github.com/zeebo/blake3"
)

// Blake3XOF expands the seed with the BLAKE3 extendable output function.
// Successive calls continue the same output stream.
type Blake3XOF struct {
	digest *blake3.Digest
	mutex  sync.Mutex
}

// NewBlake3XOF seeds a BLAKE3 XOF stream.
func NewBlake3XOF(seed []byte) *Blake3XOF {
	h := blake3.New()
	h.Write(seed)
	return &Blake3XOF{digest: h.Digest()}
}

// Name returns the generator name
func (b *Blake3XOF) Name() string {
	return "BLAKE3 XOF"
}

// GenerateBytes reads the next numBytes of the XOF stream.
func (b *Blake3XOF) GenerateBytes(numBytes int) ([]byte, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	result := make([]byte, numBytes)
	if _, err := b.digest.Read(result); err != nil {
		return nil, fmt.Errorf("reading blake3 xof: %w", err)
	}
	return result, nil
}
