package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <principal-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	accountCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	acct, err := s.GetAccount(cmd.Context(), args[0])
	if err != nil {
		exitErr("get", err)
	}

	printJSON(acct)
}
