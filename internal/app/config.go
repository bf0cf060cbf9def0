package app

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"

	"whisperlink/internal/crypto"
	"whisperlink/internal/domain"
	"whisperlink/internal/services/peer"
	"whisperlink/internal/store"
)

const (
	// ConfigFile is the default config file name inside Home.
	ConfigFile = "config.yaml"

	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home      string              `yaml:"home"`      // data directory, e.g. $HOME/.whisperlink
	Store     string              `yaml:"store"`     // file | sqlite
	Algorithm domain.KeyAlgorithm `yaml:"algorithm"` // x25519 | rsa-oaep-2048
	KDF       store.KDF           `yaml:"kdf"`       // scrypt | argon2id
	GraceDays int                 `yaml:"graceDays"` // previous days accepted by verify
	Log       LogConfig           `yaml:"log"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // console | json
}

// DefaultConfig returns the defaults rooted at home.
func DefaultConfig(home string) Config {
	return Config{
		Home:      home,
		Store:     StoreFile,
		Algorithm: domain.AlgorithmX25519,
		KDF:       store.KDFScrypt,
		Log:       LogConfig{Level: "warn", Format: "console"},
	}
}

// DefaultHome returns ~/.whisperlink.
func DefaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".whisperlink"), nil
}

// LoadConfig overlays the YAML file at path onto base. A missing file leaves
// base unchanged.
func LoadConfig(path string, base Config) (Config, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "open config")
	}
	defer file.Close()

	cfg := base
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Validate rejects unknown option values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Home) == "" {
		return errors.New("config: home is required")
	}
	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return errors.Errorf("config: unknown store %q", c.Store)
	}
	if _, err := crypto.NewGenerator(c.Algorithm, nil); err != nil {
		return errors.Wrap(err, "config")
	}
	if _, err := store.DefaultKDFParams(c.KDF); err != nil {
		return errors.Wrap(err, "config")
	}
	if c.GraceDays < 0 || c.GraceDays > peer.MaxGraceDays {
		return errors.Errorf("config: graceDays must be within [0, %d]", peer.MaxGraceDays)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return errors.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}
