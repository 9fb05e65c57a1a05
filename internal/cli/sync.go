package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/educator-insights/internal/tier"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Record the caller's attribute-derived tier in the directory",
		Long:  "Classify the principal given by --principal-id, --email and --attr and upsert the result as an account.",
		Run:   runSync,
	}

	cmd.Flags().String("by", "cli", "Recorded as created_by")

	accountCmd.AddCommand(cmd)
}

func runSync(cmd *cobra.Command, args []string) {
	by, _ := cmd.Flags().GetString("by")

	p, err := callerPrincipal()
	if err != nil {
		exitErr("principal", err)
	}
	if p == nil {
		exitErr("sync", fmt.Errorf("--principal-id and --email are required"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	acct, err := s.SyncFromPrincipal(cmd.Context(), p, tier.NewClassifier(cfg.Tier), by)
	if err != nil {
		exitErr("sync", err)
	}

	printJSON(acct)
}
