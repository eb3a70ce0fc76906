// Command matchctl is the Scoracle Live operator CLI.
//
// Usage:
//
//	matchctl migrate
//	matchctl matches list --limit 20
//	matchctl matches create --sport football --home Arsenal --away Chelsea \
//	    --start 2026-05-01T15:00:00Z --end 2026-05-01T17:00:00Z
//	matchctl matches delete 42
//	matchctl commentary list 42 --limit 10
//	matchctl status sync
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-live/internal/commentary"
	"github.com/albapepper/scoracle-live/internal/config"
	"github.com/albapepper/scoracle-live/internal/db"
	"github.com/albapepper/scoracle-live/internal/feed"
	"github.com/albapepper/scoracle-live/internal/maintenance"
	"github.com/albapepper/scoracle-live/internal/match"
	"github.com/albapepper/scoracle-live/internal/metrics"
	"github.com/albapepper/scoracle-live/internal/validate"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "matchctl",
		Short:        "Scoracle Live operator CLI",
		SilenceUsage: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(matchesCmd())
	root.AddCommand(commentaryCmd())
	root.AddCommand(statusCmd())
	return root
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			start := time.Now()
			if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("Schema applied", "duration", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// matches commands
// --------------------------------------------------------------------------

func matchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Inspect and manage matches",
	}
	cmd.AddCommand(matchesListCmd())
	cmd.AddCommand(matchesCreateCmd())
	cmd.AddCommand(matchesDeleteCmd())
	return cmd
}

func matchesListCmd() *cobra.Command {
	var limit int
	var unfinished bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List matches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				store := match.NewStore(pool)
				list := store.List
				if unfinished {
					list = store.ListUnfinished
				}
				matches, err := list(ctx, limit)
				if err != nil {
					return fmt.Errorf("list matches: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), matches)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", match.DefaultListLimit, "Maximum number of matches")
	cmd.Flags().BoolVar(&unfinished, "unfinished", false, "Only scheduled and live matches")
	return cmd
}

func matchesCreateCmd() *cobra.Command {
	var sport, home, away, start, end string
	var homeScore, awayScore int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a match",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"sport":     sport,
				"homeTeam":  home,
				"awayTeam":  away,
				"startTime": start,
				"endTime":   end,
			}
			if cmd.Flags().Changed("home-score") {
				body["homeScore"] = homeScore
			}
			if cmd.Flags().Changed("away-score") {
				body["awayScore"] = awayScore
			}
			in, err := parseMatch(body)
			if err != nil {
				return err
			}

			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				m, err := match.NewStore(pool).Create(ctx, in)
				if err != nil {
					return fmt.Errorf("create match: %w", err)
				}
				logger.Info("Match created", "id", m.ID, "status", m.Status)
				return printJSON(cmd.OutOrStdout(), m)
			})
		},
	}
	cmd.Flags().StringVar(&sport, "sport", "", "Sport name")
	cmd.Flags().StringVar(&home, "home", "", "Home team")
	cmd.Flags().StringVar(&away, "away", "", "Away team")
	cmd.Flags().StringVar(&start, "start", "", "Start time (RFC3339)")
	cmd.Flags().StringVar(&end, "end", "", "End time (RFC3339)")
	cmd.Flags().IntVar(&homeScore, "home-score", 0, "Initial home score")
	cmd.Flags().IntVar(&awayScore, "away-score", 0, "Initial away score")
	return cmd
}

func matchesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a match and its commentary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := match.NewStore(pool).Delete(ctx, id); err != nil {
					return err
				}
				logger.Info("Match deleted", "id", id)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// commentary commands
// --------------------------------------------------------------------------

func commentaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commentary",
		Short: "Inspect match commentary",
	}
	cmd.AddCommand(commentaryListCmd())
	return cmd
}

func commentaryListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list <matchId>",
		Short: "List commentary for a match in sequence order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				store := commentary.NewStore(pool)
				total, err := store.Count(ctx, id)
				if err != nil {
					return fmt.Errorf("count commentary: %w", err)
				}
				entries, err := store.List(ctx, id, limit)
				if err != nil {
					return fmt.Errorf("list commentary: %w", err)
				}
				logger.Info("Commentary", "match_id", id, "total", total, "shown", len(entries))
				return printJSON(cmd.OutOrStdout(), entries)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", commentary.DefaultListLimit, "Maximum number of entries")
	return cmd
}

// --------------------------------------------------------------------------
// status commands
// --------------------------------------------------------------------------

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Match status maintenance",
	}
	cmd.AddCommand(statusSyncCmd())
	return cmd
}

func statusSyncCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Recompute status for all unfinished matches and broadcast transitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				var notifier maintenance.Notifier = silent{}
				if !quiet {
					transport, err := feed.New(ctx, cfg, pool, logger)
					if err != nil {
						return fmt.Errorf("feed transport: %w", err)
					}
					defer transport.Close()
					notifier = feed.NewBroadcaster(transport, cfg.FeedPublishTimeout, logger, metrics.NewNoop())
				}

				sweeper := maintenance.NewSweeper(match.NewStore(pool), notifier, metrics.NewNoop(), logger)
				changed := sweeper.Sweep(ctx)
				logger.Info("Status sync finished", "changed", changed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Persist transitions without broadcasting them")
	return cmd
}

type silent struct{}

func (silent) Notify(context.Context, string, string, any) {}

// --------------------------------------------------------------------------
// helpers
// --------------------------------------------------------------------------

// runDB handles config loading, DB connection, and context cancellation.
func runDB(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}

// parseMatch runs flag values through the same schema as POST /matches.
func parseMatch(body map[string]any) (match.NewMatch, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return match.NewMatch{}, err
	}
	in, issues := validate.CreateMatch(raw)
	if len(issues) > 0 {
		return match.NewMatch{}, issues
	}
	return in, nil
}

func parseID(raw string) (int, error) {
	id, issues := validate.ID(raw)
	if len(issues) > 0 {
		return 0, fmt.Errorf("invalid match id %q: %w", raw, issues)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
