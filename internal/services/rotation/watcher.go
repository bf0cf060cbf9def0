package rotation

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"whisperlink/internal/crypto"
	"whisperlink/internal/domain"
)

// Watcher emits the current link code and then a fresh one at each rotation.
type Watcher struct {
	hasher crypto.Hasher
	clock  clock.Clock
	log    *zap.Logger
}

// New returns a Watcher. A nil hasher, clock or logger selects the default.
func New(h crypto.Hasher, c clock.Clock, log *zap.Logger) *Watcher {
	if h == nil {
		h = crypto.SHA256()
	}
	if c == nil {
		c = clock.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{hasher: h, clock: c, log: log.Named("rotation")}
}

// Run calls fn with the code for the current day, then again after every
// UTC midnight, until ctx is done. A derivation error stops the watcher.
func (w *Watcher) Run(ctx context.Context, pub domain.PublicKey, fn func(domain.LinkCode)) error {
	for {
		now := w.clock.Now()
		code, err := crypto.DeriveLinkCode(w.hasher, pub, now)
		if err != nil {
			return err
		}

		next := crypto.NextRotation(now)
		timer := w.clock.Timer(next.Sub(now))
		w.log.Debug("link code derived",
			zap.String("day", crypto.DayBucket(now)),
			zap.Time("next_rotation", next),
		)
		fn(code)

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Compile-time assertion that Watcher implements domain.RotationWatcher.
var _ domain.RotationWatcher = (*Watcher)(nil)
