package interfaces

import domaintypes "whisperlink/internal/domain/types"

// KeyValueStore is the get/set persistence collaborator the stores build on.
type KeyValueStore interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// IdentityStore persists the public identity record.
type IdentityStore interface {
	SaveIdentity(id domaintypes.Identity) error
	LoadIdentity() (domaintypes.Identity, bool, error)
	DeleteIdentity() error
}

// SecretStore keeps the private key behind a passphrase.
type SecretStore interface {
	SaveSecret(passphrase string, secret domaintypes.SecretKey) error
	LoadSecret(passphrase string) (domaintypes.SecretKey, error)
	DeleteSecret() error
}
