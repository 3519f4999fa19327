package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math/big"
	mathrand "math/rand/v2"
	"sync"
)

var ErrInvalidBound = errors.New("random bound must be positive")

// Source draws uniform random integers. Implementations must be safe for
// concurrent use.
type Source interface {
	// IntN returns a uniform random value in [0, n).
	IntN(n int) (int, error)
}

// CryptoSource draws from crypto/rand.
type CryptoSource struct{}

// IntN returns a uniform random value in [0, n) using crypto/rand.
func (CryptoSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// SeededSource is a deterministic Source. Two sources built from the same
// seed yield the same sequence.
type SeededSource struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewSeededSource returns a ChaCha8-backed Source keyed by seed.
func NewSeededSource(seed uint64) *SeededSource {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return &SeededSource{rng: mathrand.New(mathrand.NewChaCha8(key))}
}

// IntN returns the next value in [0, n).
func (s *SeededSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n), nil
}

// shuffle performs a Fisher-Yates shuffle driven by src.
func shuffle[T any](src Source, data []T) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := src.IntN(i + 1)
		if err != nil {
			return err
		}
		data[i], data[j] = data[j], data[i]
	}
	return nil
}

// pick returns a uniformly chosen element of items.
func pick[T any](src Source, items []T) (T, error) {
	var zero T
	i, err := src.IntN(len(items))
	if err != nil {
		return zero, err
	}
	return items[i], nil
}
