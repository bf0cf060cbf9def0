package interfaces

import (
	"context"
	"time"

	domaintypes "whisperlink/internal/domain/types"
)

// IdentityService creates identities and derives their rotating codes.
type IdentityService interface {
	CreateIdentity() (domaintypes.Identity, domaintypes.SecretKey, error)
	CurrentLinkCode(id domaintypes.Identity, now time.Time) (domaintypes.LinkCode, error)

	Onboard(passphrase string) (domaintypes.Identity, error)
	LoadIdentity() (domaintypes.Identity, error)
	LoadSecret(passphrase string) (domaintypes.SecretKey, error)
	Fingerprint() (domaintypes.Fingerprint, error)
	LinkCode(now time.Time) (domaintypes.LinkCode, error)
}

// PeerVerifier checks link codes presented by peers.
type PeerVerifier interface {
	Expected(alg domaintypes.KeyAlgorithm, pub domaintypes.PublicKey, now time.Time) (domaintypes.LinkCode, error)
	Verify(alg domaintypes.KeyAlgorithm, pub domaintypes.PublicKey, code string, now time.Time) error
	Fingerprint(alg domaintypes.KeyAlgorithm, pub domaintypes.PublicKey) (domaintypes.Fingerprint, error)
}

// RotationWatcher re-derives a link code whenever the day bucket rolls over.
type RotationWatcher interface {
	Run(ctx context.Context, pub domaintypes.PublicKey, fn func(domaintypes.LinkCode)) error
}
