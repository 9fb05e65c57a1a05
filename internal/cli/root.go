// Package cli implements the educator-insights CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/educator-insights/internal/backend"
	"github.com/rcliao/educator-insights/internal/config"
	"github.com/rcliao/educator-insights/internal/dashboard"
	"github.com/rcliao/educator-insights/internal/logging"
	"github.com/rcliao/educator-insights/internal/store"
	"github.com/rcliao/educator-insights/internal/synthetic"
	"github.com/rcliao/educator-insights/internal/tier"
)

var (
	configPath  string
	dbPath      string
	logLevel    string
	principalID string
	emailFlag   string
	attrFlags   []string

	cfg    *config.Config
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "educator-insights",
	Short: "Educator dashboard data access",
	Long:  "Query conversation analytics for the educator dashboard and manage the account directory. Demo callers get synthetic data.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv()
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		if dbPath != "" {
			c.Store.Path = dbPath
		}
		if logLevel != "" {
			c.Logging.Level = logLevel
		}
		l, err := logging.New(c.Logging.Level, c.Logging.Format)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file (default: $EDUCATOR_INSIGHTS_CONFIG or ~/.educator-insights/config.yaml)")
	pf.StringVarP(&dbPath, "db", "d", "", "Account directory path (default: $EDUCATOR_INSIGHTS_DB or ~/.educator-insights/accounts.db)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&principalID, "principal-id", "", "Caller principal id")
	pf.StringVar(&emailFlag, "email", "", "Caller email")
	pf.StringArrayVar(&attrFlags, "attr", nil, "Caller attribute key=value (repeatable)")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.Store.Path)
}

// buildService wires the facade from config. The account directory is
// consulted only when its database already exists.
func buildService() (*dashboard.Service, func(), error) {
	client, err := backend.New(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.BackendTimeout()),
		backend.WithLogger(logger.Named("backend")),
	)
	if err != nil {
		return nil, nil, err
	}
	provider := backend.NewProvider(client,
		backend.WithConcurrency(cfg.Backend.Concurrency),
		backend.WithProviderLogger(logger.Named("backend")),
	)

	var lookup tier.AccountLookup
	closeFn := func() {}
	if _, err := os.Stat(cfg.Store.Path); err == nil {
		s, err := openStore()
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		lookup = s
		closeFn = func() { s.Close() }
	}

	resolver := tier.NewResolver(lookup, tier.NewClassifier(cfg.Tier), logger.Named("tier"))
	svc := dashboard.New(
		synthetic.NewProvider(synthetic.WithDelay(cfg.SyntheticDelay())),
		provider,
		resolver,
		logger.Named("dashboard"),
	)
	return svc, closeFn, nil
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	_ = logger.Sync()
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
