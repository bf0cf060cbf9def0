package commands

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisperlink/internal/app"
	"whisperlink/internal/crypto"
	"whisperlink/internal/domain"
)

var (
	home       string
	configPath string
	passphrase string
	storeKind  string
	algorithm  string
	appCtx     *app.Wire
)

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "whisperlink",
		Short:         "Anonymous identity and rotating link codes",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A failed RunE skips PersistentPostRunE.
			if appCtx != nil {
				_ = appCtx.Close()
				appCtx = nil
			}
			if home == "" {
				dir, err := app.DefaultHome()
				if err != nil {
					return err
				}
				home = dir
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			if configPath == "" {
				configPath = filepath.Join(home, app.ConfigFile)
			}

			cfg, err := app.LoadConfig(configPath, app.DefaultConfig(home))
			if err != nil {
				return err
			}
			// Flags win over the file.
			cfg.Home = home
			if storeKind != "" {
				cfg.Store = storeKind
			}
			if algorithm != "" {
				cfg.Algorithm = domain.KeyAlgorithm(algorithm)
			}

			log, err := app.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			w, err := app.NewWire(cfg, nil, log)
			if err != nil {
				return err
			}
			appCtx = w
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx == nil {
				return nil
			}
			_ = appCtx.Log.Sync()
			err := appCtx.Close()
			appCtx = nil
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.whisperlink)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the private key")
	root.PersistentFlags().StringVar(&storeKind, "store", "", "storage backend: file or sqlite")
	root.PersistentFlags().StringVar(&algorithm, "algorithm", "", "key algorithm (x25519 or rsa-oaep-2048) for init, or of the contact key for verify")

	root.AddCommand(initCmd(), fingerprintCmd(), showCmd(), codeCmd(), verifyCmd(), watchCmd())
	return root
}

// referenceTime parses --date (YYYY-MM-DD in UTC, or RFC 3339) or falls back
// to the wired clock.
func referenceTime(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return appCtx.Clock.Now(), nil
	}
	if t, err := time.Parse(crypto.DayBucketLayout, date); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid --date %q (want YYYY-MM-DD or RFC 3339)", date)
	}
	return t, nil
}

func requirePassphrase() error {
	if passphrase == "" {
		return errors.New("passphrase required (-p)")
	}
	return nil
}

func logger() *zap.Logger {
	if appCtx == nil || appCtx.Log == nil {
		return zap.NewNop()
	}
	return appCtx.Log
}
