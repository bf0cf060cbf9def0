package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/curve25519"

	"whisperlink/internal/domain"
	"whisperlink/internal/util/memzero"
)

// RSABits is the modulus size for RSA identities (112-bit security).
const RSABits = 2048

// KeyPairGenerator produces a new asymmetric key pair in text-safe encoding.
type KeyPairGenerator interface {
	Algorithm() domain.KeyAlgorithm
	GenerateKeyPair() (domain.KeyPair, error)
}

// NewGenerator returns the generator for alg. A nil rnd means crypto/rand.
func NewGenerator(alg domain.KeyAlgorithm, rnd io.Reader) (KeyPairGenerator, error) {
	switch alg {
	case domain.AlgorithmX25519, "":
		return NewX25519Generator(rnd), nil
	case domain.AlgorithmRSAOAEP2048:
		return NewRSAGenerator(rnd), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "%q", alg)
	}
}

// X25519Generator generates Curve25519 key pairs.
type X25519Generator struct {
	rand io.Reader
}

// NewX25519Generator returns a generator reading entropy from rnd.
func NewX25519Generator(rnd io.Reader) *X25519Generator {
	if rnd == nil {
		rnd = rand.Reader
	}
	return &X25519Generator{rand: rnd}
}

// Algorithm reports domain.AlgorithmX25519.
func (g *X25519Generator) Algorithm() domain.KeyAlgorithm { return domain.AlgorithmX25519 }

// GenerateKeyPair returns a fresh X25519 key pair.
// The private key is clamped per RFC 7748.
func (g *X25519Generator) GenerateKeyPair() (domain.KeyPair, error) {
	var priv [curve25519.ScalarSize]byte
	defer memzero.Zero(priv[:])

	if _, err := io.ReadFull(g.rand, priv[:]); err != nil {
		return domain.KeyPair{}, errors.Wrapf(ErrCryptoUnavailable, "read entropy: %v", err)
	}
	clamp(&priv)

	pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return domain.KeyPair{}, errors.Wrapf(ErrCryptoUnavailable, "x25519: %v", err)
	}
	return domain.KeyPair{
		Algorithm:  domain.AlgorithmX25519,
		PublicKey:  domain.PublicKey(B64(pub)),
		PrivateKey: domain.PrivateKey(B64(priv[:])),
	}, nil
}

func clamp(k *[curve25519.ScalarSize]byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}

// RSAGenerator generates 2048-bit RSA key pairs for OAEP with SHA-256.
type RSAGenerator struct {
	rand io.Reader
}

// NewRSAGenerator returns a generator reading entropy from rnd.
func NewRSAGenerator(rnd io.Reader) *RSAGenerator {
	if rnd == nil {
		rnd = rand.Reader
	}
	return &RSAGenerator{rand: rnd}
}

// Algorithm reports domain.AlgorithmRSAOAEP2048.
func (g *RSAGenerator) Algorithm() domain.KeyAlgorithm { return domain.AlgorithmRSAOAEP2048 }

// GenerateKeyPair returns a PKIX public key and a PKCS#8 private key.
func (g *RSAGenerator) GenerateKeyPair() (domain.KeyPair, error) {
	key, err := rsa.GenerateKey(g.rand, RSABits)
	if err != nil {
		return domain.KeyPair{}, errors.Wrapf(ErrCryptoUnavailable, "rsa: %v", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return domain.KeyPair{}, errors.Wrap(err, "marshal public key")
	}
	priv, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return domain.KeyPair{}, errors.Wrap(err, "marshal private key")
	}
	defer memzero.Zero(priv)

	return domain.KeyPair{
		Algorithm:  domain.AlgorithmRSAOAEP2048,
		PublicKey:  domain.PublicKey(B64(pub)),
		PrivateKey: domain.PrivateKey(B64(priv)),
	}, nil
}

// ParsePublicKey decodes pub and checks it is a well-formed key for alg.
func ParsePublicKey(alg domain.KeyAlgorithm, pub domain.PublicKey) ([]byte, error) {
	raw, err := DecodeKey(string(pub))
	if err != nil {
		return nil, err
	}
	switch alg {
	case domain.AlgorithmX25519:
		if len(raw) != curve25519.PointSize {
			return nil, errors.Wrapf(ErrMalformedKeyInput, "x25519 public: want %d bytes, got %d", curve25519.PointSize, len(raw))
		}
	case domain.AlgorithmRSAOAEP2048:
		k, err := x509.ParsePKIXPublicKey(raw)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedKeyInput, "rsa public: %v", err)
		}
		rk, ok := k.(*rsa.PublicKey)
		if !ok || rk.N.BitLen() != RSABits {
			return nil, errors.Wrap(ErrMalformedKeyInput, "rsa public: not a 2048-bit RSA key")
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "%q", alg)
	}
	return raw, nil
}

// MatchesPrivateKey reports whether priv is the private half of pub.
func MatchesPrivateKey(alg domain.KeyAlgorithm, pub domain.PublicKey, priv domain.PrivateKey) (bool, error) {
	rawPriv, err := DecodeKey(string(priv))
	if err != nil {
		return false, err
	}
	defer memzero.Zero(rawPriv)

	switch alg {
	case domain.AlgorithmX25519:
		if len(rawPriv) != curve25519.ScalarSize {
			return false, errors.Wrap(ErrMalformedKeyInput, "x25519 private: bad length")
		}
		derived, err := curve25519.X25519(rawPriv, curve25519.Basepoint)
		if err != nil {
			return false, errors.Wrapf(ErrMalformedKeyInput, "x25519 private: %v", err)
		}
		return B64(derived) == string(pub), nil
	case domain.AlgorithmRSAOAEP2048:
		k, err := x509.ParsePKCS8PrivateKey(rawPriv)
		if err != nil {
			return false, errors.Wrapf(ErrMalformedKeyInput, "rsa private: %v", err)
		}
		rk, ok := k.(*rsa.PrivateKey)
		if !ok {
			return false, errors.Wrap(ErrMalformedKeyInput, "rsa private: not an RSA key")
		}
		derived, err := x509.MarshalPKIXPublicKey(&rk.PublicKey)
		if err != nil {
			return false, errors.Wrap(err, "marshal public key")
		}
		return B64(derived) == string(pub), nil
	default:
		return false, errors.Wrapf(ErrUnsupportedAlgorithm, "%q", alg)
	}
}
