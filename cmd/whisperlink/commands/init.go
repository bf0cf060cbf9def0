package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate identity keys and store them securely",
		Long: "Generate a new key pair, store the public identity record and the " +
			"passphrase-sealed private key. Running init again replaces the identity.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			id, err := appCtx.Identity.Onboard(passphrase)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Identity created.\n")
			fmt.Fprintf(out, "Fingerprint: %s\n", id.Fingerprint)
			fmt.Fprintf(out, "Public key:  %s\n", id.PublicKey)
			return nil
		},
	}
}
