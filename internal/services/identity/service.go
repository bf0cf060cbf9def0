package identity

import (
	"fmt"
	"time"
	"unicode"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"whisperlink/internal/crypto"
	"whisperlink/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)

	// ErrNoIdentity is returned when no identity has been onboarded yet.
	ErrNoIdentity = errors.New("no identity; run init first")

	// ErrSecretMismatch is returned when the stored private key does not
	// belong to the stored identity.
	ErrSecretMismatch = errors.New("stored secret does not match identity")
)

// Service creates identities and derives their link codes.
//
// The public record and the private key go to different stores: the
// identity store may be read freely, the secret store only with the
// passphrase.
type Service struct {
	gen     crypto.KeyPairGenerator
	hasher  crypto.Hasher
	clock   clock.Clock
	ids     domain.IdentityStore
	secrets domain.SecretStore
	log     *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithHasher overrides the digest collaborator.
func WithHasher(h crypto.Hasher) Option { return func(s *Service) { s.hasher = h } }

// WithClock overrides the clock used for creation timestamps.
func WithClock(c clock.Clock) Option { return func(s *Service) { s.clock = c } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// New returns an identity service. ids and secrets may be nil when only
// CreateIdentity and CurrentLinkCode are used.
func New(gen crypto.KeyPairGenerator, ids domain.IdentityStore, secrets domain.SecretStore, opts ...Option) *Service {
	s := &Service{
		gen:     gen,
		hasher:  crypto.SHA256(),
		clock:   clock.New(),
		ids:     ids,
		secrets: secrets,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.Named("identity")
	return s
}

// CreateIdentity generates a key pair, derives its fingerprint and stamps the
// creation time. Nothing is returned unless every step succeeds.
func (s *Service) CreateIdentity() (domain.Identity, domain.SecretKey, error) {
	if s.gen == nil {
		return domain.Identity{}, domain.SecretKey{}, errors.Wrap(crypto.ErrCryptoUnavailable, "no key generator")
	}
	kp, err := s.gen.GenerateKeyPair()
	if err != nil {
		return domain.Identity{}, domain.SecretKey{}, errors.Wrap(err, "generate key pair")
	}
	fp, err := crypto.DeriveFingerprint(s.hasher, kp.PublicKey)
	if err != nil {
		return domain.Identity{}, domain.SecretKey{}, errors.Wrap(err, "derive fingerprint")
	}
	rid, err := uuid.NewRandom()
	if err != nil {
		return domain.Identity{}, domain.SecretKey{}, errors.Wrapf(crypto.ErrCryptoUnavailable, "identity id: %v", err)
	}

	id := domain.Identity{
		ID:          domain.IdentityID(rid.String()),
		Algorithm:   kp.Algorithm,
		PublicKey:   kp.PublicKey,
		Fingerprint: fp,
		CreatedAt:   s.clock.Now().UTC(),
	}
	secret := domain.SecretKey{
		IdentityID: id.ID,
		Algorithm:  kp.Algorithm,
		PrivateKey: kp.PrivateKey,
	}
	s.log.Debug("identity created",
		zap.String("id", id.ID.String()),
		zap.String("algorithm", id.Algorithm.String()),
		zap.String("fingerprint", fp.String()),
	)
	return id, secret, nil
}

// CurrentLinkCode returns the code for id on the day containing now.
func (s *Service) CurrentLinkCode(id domain.Identity, now time.Time) (domain.LinkCode, error) {
	return crypto.DeriveLinkCode(s.hasher, id.PublicKey, now)
}

// Onboard creates a new identity and persists it, replacing any previous one.
// The public record is written first. If the sealed secret cannot be written
// the previous record is put back (or removed when there was none), so the
// stored record always matches the stored secret.
func (s *Service) Onboard(passphrase string) (domain.Identity, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.Identity{}, ErrWeakPassphrase
	}
	if s.ids == nil || s.secrets == nil {
		return domain.Identity{}, errors.New("identity service has no stores")
	}

	id, secret, err := s.CreateIdentity()
	if err != nil {
		return domain.Identity{}, err
	}
	prev, hadPrev, err := s.ids.LoadIdentity()
	if err != nil {
		return domain.Identity{}, errors.Wrap(err, "load previous identity")
	}
	if err := s.ids.SaveIdentity(id); err != nil {
		return domain.Identity{}, errors.Wrap(err, "save identity")
	}
	if err := s.secrets.SaveSecret(passphrase, secret); err != nil {
		s.restore(prev, hadPrev)
		return domain.Identity{}, errors.Wrap(err, "save secret")
	}

	s.log.Info("identity onboarded",
		zap.String("id", id.ID.String()),
		zap.String("fingerprint", id.Fingerprint.String()),
	)
	return id, nil
}

// restore puts the public record back to what it was before a failed Onboard.
func (s *Service) restore(prev domain.Identity, hadPrev bool) {
	var err error
	if hadPrev {
		err = s.ids.SaveIdentity(prev)
	} else {
		err = s.ids.DeleteIdentity()
	}
	if err != nil {
		s.log.Error("rollback identity", zap.Error(err))
	}
}

// LoadIdentity returns the persisted public identity.
func (s *Service) LoadIdentity() (domain.Identity, error) {
	if s.ids == nil {
		return domain.Identity{}, ErrNoIdentity
	}
	id, ok, err := s.ids.LoadIdentity()
	if err != nil {
		return domain.Identity{}, errors.Wrap(err, "load identity")
	}
	if !ok {
		return domain.Identity{}, ErrNoIdentity
	}
	if _, err := crypto.ParsePublicKey(id.Algorithm, id.PublicKey); err != nil {
		return domain.Identity{}, errors.Wrap(err, "stored identity")
	}
	return id, nil
}

// LoadSecret opens the private key and checks it belongs to the stored identity.
func (s *Service) LoadSecret(passphrase string) (domain.SecretKey, error) {
	id, err := s.LoadIdentity()
	if err != nil {
		return domain.SecretKey{}, err
	}
	if s.secrets == nil {
		return domain.SecretKey{}, errors.New("identity service has no secret store")
	}
	secret, err := s.secrets.LoadSecret(passphrase)
	if err != nil {
		return domain.SecretKey{}, errors.Wrap(err, "load secret")
	}
	if secret.IdentityID != id.ID {
		return domain.SecretKey{}, ErrSecretMismatch
	}
	ok, err := crypto.MatchesPrivateKey(id.Algorithm, id.PublicKey, secret.PrivateKey)
	if err != nil {
		return domain.SecretKey{}, errors.Wrap(err, "check secret")
	}
	if !ok {
		return domain.SecretKey{}, ErrSecretMismatch
	}
	return secret, nil
}

// Fingerprint re-derives the persisted identity's fingerprint from its public
// key and fails if the stored record disagrees.
func (s *Service) Fingerprint() (domain.Fingerprint, error) {
	id, err := s.LoadIdentity()
	if err != nil {
		return "", err
	}
	if err := crypto.VerifyFingerprint(s.hasher, id.PublicKey, id.Fingerprint.String()); err != nil {
		return "", errors.Wrap(err, "stored identity")
	}
	return id.Fingerprint, nil
}

// LinkCode returns the persisted identity's code for the day containing now.
func (s *Service) LinkCode(now time.Time) (domain.LinkCode, error) {
	id, err := s.LoadIdentity()
	if err != nil {
		return "", err
	}
	return s.CurrentLinkCode(id, now)
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
