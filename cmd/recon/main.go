// Command recon is the Gridline reconciliation CLI.
//
// Usage:
//
//	gridline-recon run --season 2026 --week 3
//	gridline-recon resolve "Ole Miss Rebels"
//	gridline-recon index --season 2026
//	gridline-recon report list
//	gridline-recon report show recon_2026_w03_20260921T190000Z.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mhalvorsen/gridline-data/internal/audit"
	"github.com/mhalvorsen/gridline-data/internal/batch"
	"github.com/mhalvorsen/gridline-data/internal/canon"
	"github.com/mhalvorsen/gridline-data/internal/config"
	"github.com/mhalvorsen/gridline-data/internal/db"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

const league = "NCAAF"

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "gridline-recon",
		Short: "Gridline reconciliation CLI",
	}

	root.AddCommand(runCmd())
	root.AddCommand(resolveCmd())
	root.AddCommand(indexCmd())
	root.AddCommand(reportCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	var (
		season  int
		week    int
		limit   int
		workers int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile pending provider events for one week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if limit == 0 {
					limit = cfg.BatchLimit
				}
				if workers == 0 {
					workers = cfg.BatchWorkers
				}

				resolver, matcher, err := batch.Bootstrap(ctx, cfg, pool, league, season, logger)
				if err != nil {
					return err
				}

				runner := batch.NewRunner(resolver, matcher, batch.NewPGSource(pool), workers, logger)
				result, err := runner.Run(ctx, season, week, limit)
				if err != nil {
					return err
				}
				for _, e := range result.Errors {
					logger.Error("reconcile error", "error", e)
				}

				report := audit.BuildReport(season, week, result.Stats, time.Now())
				path, err := report.Write(cfg.ReportsDir)
				if err != nil {
					return err
				}
				logger.Info("Run report written", "path", path)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", config.LeagueRegistry[league].CurrentSeason, "Season year")
	cmd.Flags().IntVar(&week, "week", 1, "Schedule week")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum events to drain (0 = configured default)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent worker count (0 = configured default)")
	return cmd
}

// --------------------------------------------------------------------------
// resolve command
// --------------------------------------------------------------------------

func resolveCmd() *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "resolve [name]",
		Short: "Resolve one provider name against the canonical index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				resolver, _, err := batch.Bootstrap(ctx, cfg, pool, league, season, logger)
				if err != nil {
					return err
				}

				o := resolver.Resolve(args[0], league)
				out := map[string]interface{}{
					"rawName": args[0],
					"teamId":  nil,
					"pass":    o.Pass.String(),
				}
				if o.Matched() {
					out["teamId"] = o.TeamID
				}
				if len(o.Candidates) > 0 {
					out["candidates"] = o.Candidates
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", config.LeagueRegistry[league].CurrentSeason, "Season year")
	return cmd
}

// --------------------------------------------------------------------------
// index command
// --------------------------------------------------------------------------

func indexCmd() *cobra.Command {
	var (
		season int
		dump   bool
	)
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build and validate the canonical index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				path, err := canon.Locate(cfg.CanonConfigPath)
				if err != nil {
					return err
				}
				file, err := canon.LoadFile(path)
				if err != nil {
					return err
				}
				deny := canon.NewDenylist(file.Denylist, file.DenySuffix, file.DenySuffixExceptions)

				builder := &canon.IndexBuilder{
					Registry:       db.NewTeamRegistry(pool, league),
					History:        db.NewGameHistory(pool),
					Deny:           deny,
					Floor:          cfg.IndexFloor,
					HistorySeasons: cfg.HistorySeasons,
					Logger:         logger,
				}
				idx, err := builder.Build(ctx, season)
				if err != nil {
					return err
				}
				logger.Info("Canonical index built", "season", season, "size", idx.Size())
				if dump {
					for _, id := range idx.IDs() {
						fmt.Println(id)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", config.LeagueRegistry[league].CurrentSeason, "Season year")
	cmd.Flags().BoolVar(&dump, "dump", false, "Print every canonical id")
	return cmd
}

// --------------------------------------------------------------------------
// report command
// --------------------------------------------------------------------------

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect reconciliation run reports",
	}
	cmd.AddCommand(reportListCmd())
	cmd.AddCommand(reportShowCmd())
	return cmd
}

func reportListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List report artifacts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			names, err := audit.ListReports(cfg.ReportsDir)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
	return cmd
}

func reportShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Print one report artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			report, err := audit.ReadReport(filepath.Join(cfg.ReportsDir, args[0]))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withPool handles config loading, DB connection, and context cancellation.
func withPool(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
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
