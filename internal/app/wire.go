package app

import (
	"io"
	"path/filepath"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"whisperlink/internal/crypto"
	"whisperlink/internal/domain"
	identitysvc "whisperlink/internal/services/identity"
	peersvc "whisperlink/internal/services/peer"
	rotationsvc "whisperlink/internal/services/rotation"
	"whisperlink/internal/store"
)

// Wire bundles all stores and services for the CLI.
type Wire struct {
	Identity domain.IdentityService
	Peers    domain.PeerVerifier
	Rotation domain.RotationWatcher
	Hasher   crypto.Hasher
	Clock    clock.Clock
	Log      *zap.Logger

	closer io.Closer
}

// NewWire constructs the dependency graph from cfg. A nil clk uses the wall
// clock; a nil log discards output.
func NewWire(cfg Config, clk clock.Clock, log *zap.Logger) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = zap.NewNop()
	}

	// Key-value backend
	var (
		kv     domain.KeyValueStore
		closer io.Closer
	)
	switch cfg.Store {
	case StoreSQLite:
		skv, err := store.NewSQLiteKV(filepath.Join(cfg.Home, store.DefaultSQLiteFile))
		if err != nil {
			return nil, err
		}
		kv, closer = skv, skv
	default:
		fkv, err := store.NewFileKV(cfg.Home)
		if err != nil {
			return nil, err
		}
		kv = fkv
	}

	params, err := store.DefaultKDFParams(cfg.KDF)
	if err != nil {
		return nil, err
	}
	gen, err := crypto.NewGenerator(cfg.Algorithm, nil)
	if err != nil {
		return nil, err
	}
	hasher := crypto.SHA256()

	// High-level services
	ids := identitysvc.New(
		gen,
		store.NewIdentityStore(kv),
		store.NewSecretStore(kv, params),
		identitysvc.WithHasher(hasher),
		identitysvc.WithClock(clk),
		identitysvc.WithLogger(log),
	)
	peers := peersvc.New(
		peersvc.WithHasher(hasher),
		peersvc.WithGraceDays(cfg.GraceDays),
		peersvc.WithLogger(log),
	)
	rot := rotationsvc.New(hasher, clk, log)

	log.Debug("wired",
		zap.String("home", cfg.Home),
		zap.String("store", cfg.Store),
		zap.String("algorithm", gen.Algorithm().String()),
	)
	return &Wire{
		Identity: ids,
		Peers:    peers,
		Rotation: rot,
		Hasher:   hasher,
		Clock:    clk,
		Log:      log,
		closer:   closer,
	}, nil
}

// Close releases the backend, if it holds resources.
func (w *Wire) Close() error {
	if w == nil || w.closer == nil {
		return nil
	}
	return errors.Wrap(w.closer.Close(), "close store")
}
