package generator

import (
	"math/rand"
	"sync"
	"time"
)

// MathPRNG is the insecure baseline: math/rand seeded from the clock.
type MathPRNG struct {
	rng  *rand.Rand
	lock sync.Mutex
}

// NewMathPRNG creates a new Math PRNG
func NewMathPRNG() *MathPRNG {
	// Seed with predictable time
	source := rand.NewSource(time.Now().UnixNano())
	return &MathPRNG{
		rng: rand.New(source),
	}
}

// Name returns the generator name
func (p *MathPRNG) Name() string {
	return "Math PRNG"
}

// GenerateBytes generates bytes using math/rand
func (p *MathPRNG) GenerateBytes(numBytes int) ([]byte, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	result := make([]byte, numBytes)

	// 4 bytes per draw, little-endian.
	for i := 0; i < numBytes; i += 4 {
		val := p.rng.Uint32()
		for j := 0; j < 4 && i+j < numBytes; j++ {
			result[i+j] = byte(val >> (8 * j))
		}
	}
	return result, nil
}
