package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/educator-insights/internal/model"
	"github.com/rcliao/educator-insights/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put <principal-id> <email>",
		Short: "Create or update an account",
		Args:  cobra.ExactArgs(2),
		Run:   runPut,
	}

	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().StringP("type", "t", "educator", "Account type: demo, educator, admin")
	cmd.Flags().String("role", "", "Role (default: account type)")
	cmd.Flags().String("school", "", "School")
	cmd.Flags().String("district", "", "District")
	cmd.Flags().String("permissions", "", "Comma-separated permissions")
	cmd.Flags().String("admin-level", "", "Admin level, e.g. super_admin")
	cmd.Flags().Bool("inactive", false, "Create the account disabled")
	cmd.Flags().Duration("demo-ttl", 0, "Demo accounts expire after this long")
	cmd.Flags().String("notes", "", "Free-form notes")

	accountCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) {
	id, email := args[0], args[1]
	name, _ := cmd.Flags().GetString("name")
	role, _ := cmd.Flags().GetString("role")
	school, _ := cmd.Flags().GetString("school")
	district, _ := cmd.Flags().GetString("district")
	permsStr, _ := cmd.Flags().GetString("permissions")
	adminLevel, _ := cmd.Flags().GetString("admin-level")
	inactive, _ := cmd.Flags().GetBool("inactive")
	ttl, _ := cmd.Flags().GetDuration("demo-ttl")
	notes, _ := cmd.Flags().GetString("notes")
	accountType := tierFlag(cmd, "type")

	var perms []string
	for _, p := range strings.Split(permsStr, ",") {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}

	var expires *time.Time
	if ttl > 0 {
		if accountType != model.TierDemo {
			exitErr("put", fmt.Errorf("--demo-ttl only applies to demo accounts"))
		}
		at := time.Now().UTC().Add(ttl)
		expires = &at
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	acct, err := s.Put(cmd.Context(), store.PutParams{
		PrincipalID:   id,
		Email:         email,
		FullName:      name,
		AccountType:   accountType,
		Role:          role,
		School:        school,
		District:      district,
		Permissions:   perms,
		AdminLevel:    adminLevel,
		Inactive:      inactive,
		DemoExpiresAt: expires,
		CreatedBy:     principalID,
		Notes:         notes,
	})
	if err != nil {
		exitErr("put", err)
	}

	printJSON(acct)
}
