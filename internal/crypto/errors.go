package crypto

import "errors"

var (
	// ErrCryptoUnavailable is returned when the secure random source or the
	// digest primitive cannot be used.
	ErrCryptoUnavailable = errors.New("crypto primitive unavailable")

	// ErrMalformedKeyInput is returned when a key is not canonical base64 text.
	ErrMalformedKeyInput = errors.New("malformed key input")

	// ErrMalformedLinkCode is returned when a link code has the wrong shape or
	// uses characters outside the code alphabet.
	ErrMalformedLinkCode = errors.New("malformed link code")

	// ErrUnsupportedAlgorithm is returned for unknown key algorithms.
	ErrUnsupportedAlgorithm = errors.New("unsupported key algorithm")
)
