package store

import "errors"

var (
	// ErrWrongPassphrase is returned when the passphrase is incorrect or the
	// sealed secret has been modified or corrupted.
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted secret")

	// ErrNotFound is returned when a requested record has never been saved.
	ErrNotFound = errors.New("not found")

	// ErrInvalidKey is returned for KV keys outside [a-z0-9._-].
	ErrInvalidKey = errors.New("invalid store key")

	// ErrClosed is returned by a backend used after Close.
	ErrClosed = errors.New("store closed")
)
