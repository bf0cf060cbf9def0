package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisperlink/internal/domain"
)

// verify <public-key> <code>: check a contact's code without any network round trip.
// --algorithm names the contact's key type (default x25519).
func verifyCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "verify <public-key> <code>",
		Short: "Check a contact's link code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub := domain.PublicKey(args[0])
			now, err := referenceTime(date)
			if err != nil {
				return err
			}
			alg := domain.KeyAlgorithm(algorithm)
			if err := appCtx.Peers.Verify(alg, pub, args[1], now); err != nil {
				return err
			}
			fp, err := appCtx.Peers.Fingerprint(alg, pub)
			if err != nil {
				return err
			}
			logger().Info("peer code verified", zap.String("fingerprint", fp.String()))
			fmt.Fprintf(cmd.OutOrStdout(), "Code OK for %s\n", fp)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "reference date (YYYY-MM-DD, UTC) instead of now")
	return cmd
}
