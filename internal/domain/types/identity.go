package types

import "time"

// Identity is the public identity record. It is safe to share and never
// carries private key material.
type Identity struct {
	ID          IdentityID   `json:"id"`
	Algorithm   KeyAlgorithm `json:"algorithm"`
	PublicKey   PublicKey    `json:"public_key"`
	Fingerprint Fingerprint  `json:"fingerprint"`
	CreatedAt   time.Time    `json:"created_at"`
}

// SecretKey is the private half of an identity, held only by the secret store.
type SecretKey struct {
	IdentityID IdentityID   `json:"identity_id"`
	Algorithm  KeyAlgorithm `json:"algorithm"`
	PrivateKey PrivateKey   `json:"private_key"`
}
