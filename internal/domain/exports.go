package domain

import (
	interfaces "whisperlink/internal/domain/interfaces"
	types "whisperlink/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Fingerprint  = types.Fingerprint
	LinkCode     = types.LinkCode
	IdentityID   = types.IdentityID
	KeyAlgorithm = types.KeyAlgorithm
	PublicKey    = types.PublicKey
	PrivateKey   = types.PrivateKey
	KeyPair      = types.KeyPair
	Identity     = types.Identity
	SecretKey    = types.SecretKey
)

// Algorithm constants re-exported from the types subpackage.
const (
	AlgorithmX25519      = types.AlgorithmX25519
	AlgorithmRSAOAEP2048 = types.AlgorithmRSAOAEP2048
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	KeyValueStore   = interfaces.KeyValueStore
	IdentityStore   = interfaces.IdentityStore
	SecretStore     = interfaces.SecretStore
	IdentityService = interfaces.IdentityService
	PeerVerifier    = interfaces.PeerVerifier
	RotationWatcher = interfaces.RotationWatcher
)
