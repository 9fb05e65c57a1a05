package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/educator-insights/internal/model"
	"github.com/rcliao/educator-insights/internal/tier"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show the caller's tier and how it was decided",
		Run:   runClassify,
	}

	RootCmd.AddCommand(cmd)
}

type classification struct {
	Principal *model.Principal `json:"principal"`
	Attribute tier.Decision    `json:"attribute_decision"`
	Resolved  model.Tier       `json:"resolved_tier"`
}

func runClassify(cmd *cobra.Command, args []string) {
	p, err := callerPrincipal()
	if err != nil {
		exitErr("principal", err)
	}

	svc, closeFn, err := buildService()
	if err != nil {
		exitErr("build service", err)
	}
	defer closeFn()

	printJSON(classification{
		Principal: p,
		Attribute: tier.NewClassifier(cfg.Tier).Explain(p),
		Resolved:  svc.Session(cmd.Context(), p).EffectiveTier(),
	})
}
