package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// show prints the public record; with --check-secret it also opens the
// private key to confirm the passphrase and the key pair still match.
func showCmd() *cobra.Command {
	var checkSecret bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the shareable public identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.Identity.LoadIdentity()
			if err != nil {
				return err
			}
			if checkSecret {
				if err := requirePassphrase(); err != nil {
					return err
				}
				if _, err := appCtx.Identity.LoadSecret(passphrase); err != nil {
					return err
				}
			}
			b, err := json.MarshalIndent(id, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			if checkSecret {
				fmt.Fprintln(cmd.OutOrStdout(), "Private key: OK")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkSecret, "check-secret", false, "also unlock the private key with -p")
	return cmd
}
