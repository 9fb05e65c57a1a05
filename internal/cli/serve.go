package cli

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rcliao/educator-insights/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API over HTTP",
		Run:   runServe,
	}

	cmd.Flags().StringP("listen", "l", "", "Listen address (default from config)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("listen")
	if addr == "" {
		addr = cfg.Server.Listen
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	svc, closeFn, err := buildService()
	if err != nil {
		exitErr("build service", err)
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.New(svc, logger.Named("server")).Run(ctx, addr); err != nil {
		exitErr("serve", err)
	}
}
