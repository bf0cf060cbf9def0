package peer

import (
	"crypto/subtle"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"whisperlink/internal/crypto"
	"whisperlink/internal/domain"
)

const (
	codeTTL         = 24 * time.Hour
	cleanupInterval = time.Hour

	// MaxGraceDays bounds how many previous buckets Verify will accept.
	MaxGraceDays = 7
)

// ErrCodeMismatch is returned when a presented code matches no accepted day.
var ErrCodeMismatch = errors.New("link code does not match")

// Verifier derives and checks peer link codes.
type Verifier struct {
	hasher    crypto.Hasher
	graceDays int
	cache     *cache.Cache
	log       *zap.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithHasher overrides the digest collaborator.
func WithHasher(h crypto.Hasher) Option { return func(v *Verifier) { v.hasher = h } }

// WithGraceDays accepts codes from up to n previous day buckets, clamped to
// [0, MaxGraceDays].
func WithGraceDays(n int) Option {
	return func(v *Verifier) {
		switch {
		case n < 0:
			n = 0
		case n > MaxGraceDays:
			n = MaxGraceDays
		}
		v.graceDays = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(v *Verifier) { v.log = l } }

// New returns a Verifier.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		hasher: crypto.SHA256(),
		cache:  cache.New(codeTTL, cleanupInterval),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.log == nil {
		v.log = zap.NewNop()
	}
	v.log = v.log.Named("peer")
	return v
}

// Expected returns the code the owner of pub shows on the day containing now.
// An empty alg means x25519. pub must be a well-formed key for alg.
func (v *Verifier) Expected(alg domain.KeyAlgorithm, pub domain.PublicKey, now time.Time) (domain.LinkCode, error) {
	if alg == "" {
		alg = domain.AlgorithmX25519
	}
	key := alg.String() + "|" + crypto.DayBucket(now) + "|" + string(pub)
	if c, ok := v.cache.Get(key); ok {
		return c.(domain.LinkCode), nil
	}
	if _, err := crypto.ParsePublicKey(alg, pub); err != nil {
		return "", err
	}
	code, err := crypto.DeriveLinkCode(v.hasher, pub, now)
	if err != nil {
		return "", err
	}
	v.cache.SetDefault(key, code)
	return code, nil
}

// Verify checks a user-typed code against pub for the day containing now and,
// with grace days configured, the preceding UTC days.
func (v *Verifier) Verify(alg domain.KeyAlgorithm, pub domain.PublicKey, code string, now time.Time) error {
	got, err := crypto.NormalizeLinkCode(code)
	if err != nil {
		return err
	}
	now = now.UTC()
	for d := 0; d <= v.graceDays; d++ {
		want, err := v.Expected(alg, pub, now.AddDate(0, 0, -d))
		if err != nil {
			return err
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1 {
			if d > 0 {
				v.log.Debug("accepted link code from previous day", zap.Int("days_back", d))
			}
			return nil
		}
	}
	return errors.Wrapf(ErrCodeMismatch, "for day %s", crypto.DayBucket(now))
}

// Fingerprint returns the display fingerprint of a peer's public key.
func (v *Verifier) Fingerprint(alg domain.KeyAlgorithm, pub domain.PublicKey) (domain.Fingerprint, error) {
	if alg == "" {
		alg = domain.AlgorithmX25519
	}
	if _, err := crypto.ParsePublicKey(alg, pub); err != nil {
		return "", err
	}
	return crypto.DeriveFingerprint(v.hasher, pub)
}

// Compile-time assertion that Verifier implements domain.PeerVerifier.
var _ domain.PeerVerifier = (*Verifier)(nil)
