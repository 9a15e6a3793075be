package generator

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20"
)

// ChaCha20 is a deterministic keystream generator. The key is the BLAKE3
// hash of the seed; each call uses a fresh nonce built from a call counter.
type ChaCha20 struct {
	key      [chacha20.KeySize]byte
	numCalls uint64
	mutex    sync.Mutex
}

// NewChaCha20 derives a ChaCha20 key from seed.
func NewChaCha20(seed []byte) *ChaCha20 {
	return &ChaCha20{key: blake3.Sum256(seed)}
}

// Name returns the generator name
func (c *ChaCha20) Name() string {
	return "ChaCha20 Keystream"
}

// GenerateBytes returns numBytes of keystream under the next nonce.
func (c *ChaCha20) GenerateBytes(numBytes int) ([]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var nonce [chacha20.NonceSize]byte
	binary.LittleEndian.PutUint64(nonce[:8], c.numCalls)
	cipher, err := chacha20.NewUnauthenticatedCipher(c.key[:], nonce[:])
	if err != nil {
		return nil, fmt.Errorf("creating chacha20 cipher: %w", err)
	}

	result := make([]byte, numBytes)
	cipher.XORKeyStream(result, result)
	c.numCalls++
	return result, nil
}
