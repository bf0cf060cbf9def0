package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"whisperlink/internal/crypto"
)

func fingerprintCmd() *cobra.Command {
	var expect string
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print identity fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := appCtx.Identity.Fingerprint()
			if err != nil {
				return err
			}
			if expect != "" {
				id, err := appCtx.Identity.LoadIdentity()
				if err != nil {
					return err
				}
				if err := crypto.VerifyFingerprint(appCtx.Hasher, id.PublicKey, expect); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Fingerprint matches")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s\n", fp)
			return nil
		},
	}
	cmd.Flags().StringVar(&expect, "expect", "", "fail unless the fingerprint equals this value")
	return cmd
}
