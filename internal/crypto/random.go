package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// RandIndex returns a uniform random index in [0, n) from crypto/rand.
// Password material must never come from a general-purpose PRNG.
func RandIndex(n int) (int, error) {
	if n <= 0 {
		return 0, errors.New("randindex: n must be positive")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
