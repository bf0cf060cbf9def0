// Package identity creates the local identity and derives its rotating link code.
//
// CreateIdentity composes key generation, fingerprint derivation and a
// creation timestamp into one all-or-nothing step. CurrentLinkCode is a pure
// function of the identity's public key and the time the caller passes in;
// the service never schedules re-derivation itself.
//
// Onboard additionally enforces passphrase policy and persists the public
// record and the sealed private key through separate stores.
package identity
