package generator

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/hkdf"
)

// hkdfBlockSize is the most HKDF-SHA256 can expand from one info value.
const hkdfBlockSize = 255 * sha256.Size

// HKDF expands the seed with HKDF-SHA256, using a block counter as the
// info parameter so output is not capped at one expansion.
type HKDF struct {
	prk     []byte
	counter uint64
	mutex   sync.Mutex
}

// NewHKDF extracts a pseudorandom key from seed.
func NewHKDF(seed []byte) *HKDF {
	return &HKDF{prk: hkdf.Extract(sha256.New, seed, nil)}
}

// Name returns the generator name
func (h *HKDF) Name() string {
	return "HKDF-SHA256"
}

// GenerateBytes expands numBytes, one counter block at a time.
func (h *HKDF) GenerateBytes(numBytes int) ([]byte, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	result := make([]byte, numBytes)
	generated := 0
	info := make([]byte, 8)

	for generated < numBytes {
		binary.BigEndian.PutUint64(info, h.counter)
		toCopy := min(hkdfBlockSize, numBytes-generated)
		if _, err := io.ReadFull(hkdf.Expand(sha256.New, h.prk, info), result[generated:generated+toCopy]); err != nil {
			return nil, fmt.Errorf("expanding hkdf block %d: %w", h.counter, err)
		}
		generated += toCopy
		h.counter++
	}
	return result, nil
}
