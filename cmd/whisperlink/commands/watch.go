package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"whisperlink/internal/crypto"
	"whisperlink/internal/domain"
)

// watch keeps printing the link code, once per UTC day, until interrupted.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the link code whenever it rotates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.Identity.LoadIdentity()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			err = appCtx.Rotation.Run(ctx, id.PublicKey, func(code domain.LinkCode) {
				now := appCtx.Clock.Now()
				fmt.Fprintf(out, "%s  %s\n", crypto.DayBucket(now), code)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
