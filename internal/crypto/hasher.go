package crypto

import (
	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
)

// Hasher is the 256-bit digest collaborator used by the derivers.
type Hasher interface {
	Sum256(data []byte) ([32]byte, error)
}

// HasherFunc adapts a function to the Hasher interface.
type HasherFunc func(data []byte) ([32]byte, error)

// Sum256 calls f(data).
func (f HasherFunc) Sum256(data []byte) ([32]byte, error) { return f(data) }

type sha256Hasher struct{}

// SHA256 returns the default Hasher, a SIMD-accelerated SHA-256.
func SHA256() Hasher { return sha256Hasher{} }

func (sha256Hasher) Sum256(data []byte) ([32]byte, error) {
	return sha256.Sum256(data), nil
}

// digest runs h over data and folds any failure into ErrCryptoUnavailable.
func digest(h Hasher, data []byte) ([32]byte, error) {
	if h == nil {
		return [32]byte{}, errors.Wrap(ErrCryptoUnavailable, "no hasher")
	}
	sum, err := h.Sum256(data)
	if err != nil {
		return [32]byte{}, errors.Wrapf(ErrCryptoUnavailable, "digest: %v", err)
	}
	return sum, nil
}
