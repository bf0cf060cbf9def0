package store

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"whisperlink/internal/domain"
	"whisperlink/internal/util/memzero"
)

// SecretKeyName is the logical key of the sealed private key.
const SecretKeyName = "identity.secret"

// SecretStore keeps the private key sealed under a passphrase.
type SecretStore struct {
	kv     domain.KeyValueStore
	params KDFParams
	mu     sync.Mutex
}

// NewSecretStore returns a SecretStore that seals new secrets with params.
func NewSecretStore(kv domain.KeyValueStore, params KDFParams) *SecretStore {
	return &SecretStore{kv: kv, params: params}
}

// SaveSecret seals secret under passphrase and replaces any stored secret.
func (s *SecretStore) SaveSecret(passphrase string, secret domain.SecretKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(secret)
	if err != nil {
		return errors.Wrap(err, "encode secret")
	}
	defer memzero.Zero(raw)

	sealed, err := seal(passphrase, raw, s.params)
	if err != nil {
		return errors.Wrap(err, "seal secret")
	}
	return s.kv.Set(SecretKeyName, sealed)
}

// LoadSecret opens the stored secret with passphrase.
func (s *SecretStore) LoadSecret(passphrase string) (domain.SecretKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, ok, err := s.kv.Get(SecretKeyName)
	if err != nil {
		return domain.SecretKey{}, err
	}
	if !ok {
		return domain.SecretKey{}, errors.Wrap(ErrNotFound, "secret")
	}
	raw, err := open(passphrase, sealed)
	if err != nil {
		return domain.SecretKey{}, err
	}
	defer memzero.Zero(raw)

	var secret domain.SecretKey
	if err := json.Unmarshal(raw, &secret); err != nil {
		return domain.SecretKey{}, errors.Wrap(err, "decode secret")
	}
	return secret, nil
}

// DeleteSecret removes the stored secret.
func (s *SecretStore) DeleteSecret() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(SecretKeyName)
}

// Compile-time assertion that SecretStore implements domain.SecretStore.
var _ domain.SecretStore = (*SecretStore)(nil)
