package domain

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewCoin returns a coin-flip function backed by a deterministic source
// for the given seed. The returned function is safe for concurrent use.
func NewCoin(seed int64) func() bool {
	rng := rand.New(rand.NewSource(seed))
	var mu sync.Mutex
	return func() bool {
		mu.Lock()
		defer mu.Unlock()
		return rng.Intn(2) == 0
	}
}

func defaultCoin() bool {
	seed, err := NewSeed()
	if err != nil {
		// fixed pick when the entropy source fails
		return true
	}
	return seed%2 == 0
}
