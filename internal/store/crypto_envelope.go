package store

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"whisperlink/internal/util/memzero"
)

const (
	// The current supported version of the sealed blob format.
	keystoreFormatVersion = 1

	saltBytes = 16
)

// KDF names a passphrase key-derivation function.
type KDF string

const (
	KDFScrypt   KDF = "scrypt"
	KDFArgon2id KDF = "argon2id"
)

// KDFParams are the tunables recorded alongside each sealed blob, so old blobs
// stay readable when the defaults change.
type KDFParams struct {
	Name KDF `json:"name"`

	// scrypt
	N int `json:"n,omitempty"`
	R int `json:"r,omitempty"`
	P int `json:"p,omitempty"`

	// argon2id
	Time    uint32 `json:"time,omitempty"`
	Memory  uint32 `json:"memory,omitempty"`
	Threads uint8  `json:"threads,omitempty"`
}

// DefaultKDFParams returns the default tunables for name.
func DefaultKDFParams(name KDF) (KDFParams, error) {
	switch name {
	case KDFScrypt, "":
		return KDFParams{Name: KDFScrypt, N: 1 << 15, R: 8, P: 1}, nil
	case KDFArgon2id:
		return KDFParams{Name: KDFArgon2id, Time: 1, Memory: 64 * 1024, Threads: 4}, nil
	default:
		return KDFParams{}, fmt.Errorf("unsupported kdf %q", name)
	}
}

// Upper bounds on tunables read back from a sealed blob. They keep a
// tampered file from forcing a huge allocation on unlock.
const (
	maxScryptN       = 1 << 20
	maxScryptR       = 32
	maxScryptP       = 16
	maxArgon2Time    = 16
	maxArgon2Memory  = 1 << 20 // KiB
	maxArgon2Threads = 16
)

// check rejects tunables that are zero, malformed or above the caps.
func (p KDFParams) check() error {
	switch p.Name {
	case KDFScrypt:
		if p.N < 2 || p.N&(p.N-1) != 0 || p.N > maxScryptN {
			return errors.Errorf("scrypt: N=%d out of range", p.N)
		}
		if p.R < 1 || p.R > maxScryptR || p.P < 1 || p.P > maxScryptP {
			return errors.Errorf("scrypt: r=%d p=%d out of range", p.R, p.P)
		}
	case KDFArgon2id:
		if p.Time == 0 || p.Time > maxArgon2Time ||
			p.Memory == 0 || p.Memory > maxArgon2Memory ||
			p.Threads == 0 || p.Threads > maxArgon2Threads {
			return errors.Errorf("argon2id: time=%d memory=%d threads=%d out of range", p.Time, p.Memory, p.Threads)
		}
	default:
		return fmt.Errorf("unsupported kdf %q", p.Name)
	}
	return nil
}

func (p KDFParams) deriveKey(passphrase string, salt []byte) ([]byte, error) {
	switch p.Name {
	case KDFScrypt:
		return scrypt.Key([]byte(passphrase), salt, p.N, p.R, p.P, chacha20poly1305.KeySize)
	case KDFArgon2id:
		return argon2.IDKey([]byte(passphrase), salt, p.Time, p.Memory, p.Threads, chacha20poly1305.KeySize), nil
	default:
		return nil, fmt.Errorf("unsupported kdf %q", p.Name)
	}
}

// blob is the persisted JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V      int       `json:"v"`
	Salt   []byte    `json:"salt"`
	KDF    KDFParams `json:"kdf"`
	Cipher []byte    `json:"cipher"`
}

// seal derives a key from passphrase and seals raw into a JSON blob.
func seal(passphrase string, raw []byte, params KDFParams) ([]byte, error) {
	if err := params.check(); err != nil {
		return nil, err
	}
	var salt [saltBytes]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, errors.Wrap(err, "read salt")
	}
	key, err := params.deriveKey(passphrase, salt[:])
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte // zero nonce; salt-bound key guarantees uniqueness
	ct := aead.Seal(nil, nonce[:], raw, salt[:])

	return json.Marshal(blob{
		V:      keystoreFormatVersion,
		Salt:   salt[:],
		KDF:    params,
		Cipher: ct,
	})
}

// open opens the JSON blob using a key derived from passphrase.
func open(passphrase string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, errors.Wrap(err, "decode sealed blob")
	}
	if bl.V > keystoreFormatVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", bl.V)
	}
	if len(bl.Salt) != saltBytes {
		return nil, ErrWrongPassphrase
	}
	if err := bl.KDF.check(); err != nil {
		return nil, errors.Wrap(ErrWrongPassphrase, err.Error())
	}

	key, err := bl.KDF.deriveKey(passphrase, bl.Salt)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, bl.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}
