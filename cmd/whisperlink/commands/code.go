package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"whisperlink/internal/crypto"
)

func codeCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Print today's link code",
		Long: "Print the link code for the current UTC day. Contacts holding your " +
			"public key compute the same code without contacting you.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := referenceTime(date)
			if err != nil {
				return err
			}
			code, err := appCtx.Identity.LinkCode(now)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Link code:   %s\n", code)
			fmt.Fprintf(out, "Valid until: %s\n", crypto.NextRotation(now).Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "reference date (YYYY-MM-DD, UTC) instead of now")
	return cmd
}
