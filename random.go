package backoff

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	mrand "math/rand/v2"
	"time"
)

// DefaultRandomFunc returns a random function backed by a PCG generator seeded from crypto/rand.
// If the entropy source fails, the seed falls back to the current time. The function never fails.
func DefaultRandomFunc() RandomFunc {
	var seed [16]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		now := uint64(time.Now().UnixNano())
		binary.LittleEndian.PutUint64(seed[:8], now)
		binary.LittleEndian.PutUint64(seed[8:], now>>1)
	}

	return SeededRandomFunc(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:]))
}

// SeededRandomFunc returns a deterministic random function. Equal seeds give equal sequences.
func SeededRandomFunc(seed1, seed2 uint64) RandomFunc {
	rng := mrand.New(mrand.NewPCG(seed1, seed2)) // #nosec G404 -- jitter does not need a secure source

	return func() int32 {
		return rng.Int32()
	}
}

// CryptoRandomFunc returns a random function that reads from crypto/rand.
// A read error is reported as a negative value.
func CryptoRandomFunc() RandomFunc {
	return CryptoRandomFuncFrom(rand.Reader)
}

// CryptoRandomFuncFrom is CryptoRandomFunc reading from r.
func CryptoRandomFuncFrom(r io.Reader) RandomFunc {
	return func() int32 {
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return -1
		}

		return int32(binary.BigEndian.Uint32(b[:]) >> 1)
	}
}
