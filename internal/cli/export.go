package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export accounts as JSON",
		Long:  "Export every account, inactive ones included. Filter by account type with -t.",
		Run:   runExport,
	}

	cmd.Flags().StringP("type", "t", "", "Filter by account type")

	accountCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	accounts, err := s.ExportAll(cmd.Context(), tierFlag(cmd, "type"))
	if err != nil {
		exitErr("export", err)
	}

	printJSON(accounts)
}
