package crypto

import (
	"encoding/base64"

	"github.com/pkg/errors"
)

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// DecodeKey decodes canonical base64 key text. Empty input, non-canonical
// padding and embedded whitespace are rejected with ErrMalformedKeyInput.
func DecodeKey(s string) ([]byte, error) {
	if s == "" {
		return nil, errors.Wrap(ErrMalformedKeyInput, "empty key")
	}
	raw, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedKeyInput, "base64: %v", err)
	}
	// The decoder skips \r and \n, so a re-encode is needed to pin the text form.
	if len(raw) == 0 || B64(raw) != s {
		return nil, errors.Wrap(ErrMalformedKeyInput, "non-canonical base64")
	}
	return raw, nil
}
