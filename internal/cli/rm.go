package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/educator-insights/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <principal-id>",
		Short: "Disable an account",
		Long:  "Disable an account so its principal resolves to demo. --hard deletes the row, returning the principal to attribute-based classification.",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	cmd.Flags().Bool("hard", false, "Permanent delete (irreversible)")

	accountCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	hard, _ := cmd.Flags().GetBool("hard")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.Rm(cmd.Context(), store.RmParams{PrincipalID: args[0], Hard: hard}); err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"principal_id":%q,"hard":%t}`+"\n", args[0], hard)
}
