// Package crypto exposes the identity primitives used by whisperlink.
//
// Contents
//
//   - Key pair generation for X25519 and RSA-OAEP-2048 (NewGenerator,
//     NewX25519Generator, NewRSAGenerator)
//   - Canonical base64 text encoding of key bytes (B64, DecodeKey)
//   - A 256-bit digest collaborator (Hasher, SHA256)
//   - Short public-key fingerprints for display (DeriveFingerprint)
//   - Daily rotating link codes (DayBucket, DeriveLinkCode)
//
// # Notes
//
// Fingerprints and link codes hash the canonical encoded text of the public
// key, not the decoded bytes, so any holder of the text form can reproduce
// them. The day bucket is the UTC calendar date of the reference time; both
// ends of a code exchange must agree on it.
//
// Failures of the random source or the digest surface as ErrCryptoUnavailable
// and are never replaced by fallback material.
package crypto
