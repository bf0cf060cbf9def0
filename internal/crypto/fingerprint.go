package crypto

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"whisperlink/internal/domain"
)

// FingerprintLength is the number of hex characters kept from the digest
// (48 bits).
const FingerprintLength = 12

// ErrFingerprintMismatch is returned by VerifyFingerprint.
var ErrFingerprintMismatch = errors.New("fingerprint mismatch")

// DeriveFingerprint returns a short uppercase hex fingerprint of a public key.
//
// It hashes the encoded key text and truncates to FingerprintLength characters.
func DeriveFingerprint(h Hasher, pub domain.PublicKey) (domain.Fingerprint, error) {
	if _, err := DecodeKey(string(pub)); err != nil {
		return "", err
	}
	sum, err := digest(h, []byte(pub))
	if err != nil {
		return "", err
	}
	fp := strings.ToUpper(hex.EncodeToString(sum[:FingerprintLength/2]))
	return domain.Fingerprint(fp), nil
}

// VerifyFingerprint checks expected against the fingerprint of pub, ignoring case.
func VerifyFingerprint(h Hasher, pub domain.PublicKey, expected string) error {
	fp, err := DeriveFingerprint(h, pub)
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(expected), fp.String()) {
		return errors.Wrapf(ErrFingerprintMismatch, "expected %s, got %s", expected, fp)
	}
	return nil
}
