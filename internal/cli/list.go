package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/educator-insights/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Run:   runList,
	}

	cmd.Flags().StringP("type", "t", "", "Filter by account type")
	cmd.Flags().Bool("all", false, "Include inactive accounts")
	cmd.Flags().IntP("limit", "l", 50, "Max results")
	cmd.Flags().Bool("ids-only", false, "Only output principal id and type")

	accountCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	accounts, err := s.List(cmd.Context(), store.ListParams{
		AccountType:     tierFlag(cmd, "type"),
		IncludeInactive: all,
		Limit:           limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if idsOnly {
		for _, a := range accounts {
			fmt.Printf("%s\t%s\n", a.PrincipalID, a.AccountType)
		}
		return
	}

	printJSON(accounts)
}
