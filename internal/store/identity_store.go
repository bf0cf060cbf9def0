package store

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"whisperlink/internal/domain"
)

// IdentityKey is the logical key of the public identity record.
const IdentityKey = "identity"

// IdentityStore persists the public identity record on a key-value backend.
type IdentityStore struct {
	kv domain.KeyValueStore
	mu sync.Mutex
}

// NewIdentityStore returns an IdentityStore backed by kv.
func NewIdentityStore(kv domain.KeyValueStore) *IdentityStore {
	return &IdentityStore{kv: kv}
}

// SaveIdentity replaces the stored identity record.
func (s *IdentityStore) SaveIdentity(id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode identity")
	}
	return s.kv.Set(IdentityKey, raw)
}

// LoadIdentity returns the stored identity record, if any.
func (s *IdentityStore) LoadIdentity() (domain.Identity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(IdentityKey)
	if err != nil || !ok {
		return domain.Identity{}, false, err
	}
	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return domain.Identity{}, false, errors.Wrap(err, "decode identity")
	}
	return id, true, nil
}

// DeleteIdentity removes the stored identity record.
func (s *IdentityStore) DeleteIdentity() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(IdentityKey)
}

// Compile-time assertion that IdentityStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityStore)(nil)
