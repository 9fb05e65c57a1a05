package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/educator-insights/internal/model"
)

// accountCmd groups the account directory commands.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the account directory",
	Long:  "The account directory overrides attribute-based tier classification for known principals.",
}

func init() {
	RootCmd.AddCommand(accountCmd)
}

func tierFlag(cmd *cobra.Command, name string) model.Tier {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return ""
	}
	t, err := model.ParseTier(raw)
	if err != nil {
		exitErr(name, err)
	}
	return t
}
