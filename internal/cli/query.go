package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/educator-insights/internal/backend"
	"github.com/rcliao/educator-insights/internal/dashboard"
	"github.com/rcliao/educator-insights/internal/model"
)

// outcome is what every facade call returns.
type outcome interface {
	json.Marshaler
	OK() bool
}

// runQuery resolves the caller, runs q and prints the result. A failed
// result is still printed, then the process exits non-zero.
func runQuery(cmd *cobra.Command, q func(ctx context.Context, svc *dashboard.Service, sess dashboard.Session) outcome) {
	svc, closeFn, err := buildService()
	if err != nil {
		exitErr("build service", err)
	}
	defer closeFn()

	p, err := callerPrincipal()
	if err != nil {
		exitErr("principal", err)
	}
	ctx := cmd.Context()
	r := q(ctx, svc, svc.Session(ctx, p))
	printJSON(r)
	if !r.OK() {
		closeFn()
		_ = logger.Sync()
		os.Exit(1)
	}
}

func intArg(args []string, name string) int {
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		exitErr(name, fmt.Errorf("invalid id %q", args[0]))
	}
	return n
}

func init() {
	conversations := &cobra.Command{
		Use:   "conversations",
		Short: "List conversations with analytics, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			page, _ := cmd.Flags().GetInt("page")
			size, _ := cmd.Flags().GetInt("page-size")
			ordering, _ := cmd.Flags().GetString("ordering")
			noSort, _ := cmd.Flags().GetBool("no-default-sort")
			raw, _ := cmd.Flags().GetBool("raw")

			runQuery(cmd, func(ctx context.Context, svc *dashboard.Service, sess dashboard.Session) outcome {
				if raw {
					return svc.Conversations(ctx, sess, backend.ConversationQuery{Page: page, PageSize: size, Ordering: ordering})
				}
				return svc.ConversationsWithAnalytics(ctx, sess, model.ListParams{
					Page: page, PageSize: size, Ordering: ordering, NoDefaultSort: noSort,
				})
			})
		},
	}
	conversations.Flags().IntP("page", "p", 1, "Page number")
	conversations.Flags().IntP("page-size", "s", model.DefaultPageSize, "Page size")
	conversations.Flags().StringP("ordering", "o", "", "Ordering, e.g. -start_date_time")
	conversations.Flags().Bool("no-default-sort", false, "Keep the service's physical order when no ordering is given")
	conversations.Flags().Bool("raw", false, "Return one unenriched service page")

	conversation := &cobra.Command{
		Use:   "conversation <id>",
		Short: "Show a conversation with its questions and answers",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id := intArg(args, "conversation")
			runQuery(cmd, func(ctx context.Context, svc *dashboard.Service, sess dashboard.Session) outcome {
				return svc.ConversationDetails(ctx, sess, id)
			})
		},
	}

	characters := &cobra.Command{
		Use:   "characters",
		Short: "Per-character conversation statistics",
		Run: func(cmd *cobra.Command, args []string) {
			runQuery(cmd, func(ctx context.Context, svc *dashboard.Service, sess dashboard.Session) outcome {
				return svc.CharacterStats(ctx, sess)
			})
		},
	}

	dash := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard overview statistics",
		Run: func(cmd *cobra.Command, args []string) {
			runQuery(cmd, func(ctx context.Context, svc *dashboard.Service, sess dashboard.Session) outcome {
				return svc.DashboardStats(ctx, sess)
			})
		},
	}

	children := &cobra.Command{
		Use:   "children",
		Short: "List children, or a child's analytics with --child",
		Run: func(cmd *cobra.Command, args []string) {
			parentID, _ := cmd.Flags().GetInt("parent-id")
			childID, _ := cmd.Flags().GetInt("child")
			kind, _ := cmd.Flags().GetString("analytics")

			runQuery(cmd, func(ctx context.Context, svc *dashboard.Service, sess dashboard.Session) outcome {
				if childID > 0 {
					return svc.ChildAnalytics(ctx, sess, backend.Analytics(kind), childID)
				}
				return svc.Children(ctx, sess, parentID)
			})
		},
	}
	children.Flags().Int("parent-id", 0, "Parent id (required for real data)")
	children.Flags().Int("child", 0, "Child id for analytics")
	children.Flags().String("analytics", string(backend.AnalyticsMoodMeter), "mood-meter, chat-history, emotions or usage")

	students := &cobra.Command{
		Use:   "students",
		Short: "Student roster (placeholder rows unless admin)",
		Run: func(cmd *cobra.Command, args []string) {
			runQuery(cmd, func(ctx context.Context, svc *dashboard.Service, sess dashboard.Session) outcome {
				return svc.StudentRoster(ctx, sess)
			})
		},
	}

	health := &cobra.Command{
		Use:   "health",
		Short: "Check the conversation service",
		Run: func(cmd *cobra.Command, args []string) {
			runQuery(cmd, func(ctx context.Context, svc *dashboard.Service, _ dashboard.Session) outcome {
				return svc.Health(ctx)
			})
		},
	}

	RootCmd.AddCommand(conversations, conversation, characters, dash, children, students, health)
}
