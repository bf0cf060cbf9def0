package types

// KeyAlgorithm names the asymmetric scheme an identity key pair belongs to.
type KeyAlgorithm string

const (
	// AlgorithmX25519 is a Curve25519 key pair (raw 32-byte keys).
	AlgorithmX25519 KeyAlgorithm = "x25519"
	// AlgorithmRSAOAEP2048 is a 2048-bit RSA key pair intended for OAEP with
	// SHA-256 (PKIX public / PKCS#8 private DER).
	AlgorithmRSAOAEP2048 KeyAlgorithm = "rsa-oaep-2048"
)

// String returns the string form of the algorithm.
func (a KeyAlgorithm) String() string { return string(a) }

// PublicKey is the canonical base64 (standard, padded) text of raw public key bytes.
type PublicKey string

// String returns the encoded key.
func (k PublicKey) String() string { return string(k) }

// PrivateKey is the canonical base64 (standard, padded) text of raw private key bytes.
type PrivateKey string

// KeyPair holds both halves of a freshly generated key pair.
type KeyPair struct {
	Algorithm  KeyAlgorithm `json:"algorithm"`
	PublicKey  PublicKey    `json:"public_key"`
	PrivateKey PrivateKey   `json:"private_key"`
}
